package handler_test

import (
	"net/http"
	"net/url"
	"testing"

	"anoa.com/eventtech/internal/entity"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
	certRepo "anoa.com/eventtech/internal/modules/certificate/repository"
	certService "anoa.com/eventtech/internal/modules/certificate/service"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	winnerHttp "anoa.com/eventtech/internal/modules/winner/delivery/http"
	"anoa.com/eventtech/internal/modules/winner/service"
	"anoa.com/eventtech/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	db := testutil.SetupTestDB(t)
	regs := registrationRepo.NewRegistrationRepository(db)
	certs := certService.NewCertificateService(certRepo.NewCertificateRepository(db), regs, nil, "")
	audit := adminService.NewAdminService(adminRepo.NewAdminRepository(db), nil)
	h := winnerHttp.NewWinnerHandler(service.NewWinnerService(regs, certs, audit, nil, nil))

	require.NoError(t, db.Create(&entity.Registration{Name: "Ana", Email: "ana@example.com", College: "ITB", Event: "Hackathon"}).Error)

	r := testutil.NewRouter()
	admin := r.Group("", func(c *gin.Context) { c.Set("admin_id", uint(1)) })
	admin.POST("/winner", h.HandlePost)
	admin.GET("/winner", h.HandleGet)
	return r
}

func TestWinnerFlow(t *testing.T) {
	r := setup(t)

	w := testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"select_winner"}, "id": {"1"}})
	testutil.AssertStatus(t, w, http.StatusOK)
	body := testutil.AssertEnvelope(t, w, "success", "Winner selected successfully! Winner certificate is ready for download.")
	cert := body["certificate_data"].(map[string]any)
	assert.Equal(t, "winner", cert["certificate_type"])

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner?action=select_winner&id=1", nil)
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertEnvelope(t, w, "error", "Participant is already a winner")

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"generate_winner_certificate"}, "id": {"1"}})
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertEnvelope(t, w, "success", "Winner certificate generated successfully")

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"revoke_winner"}, "id": {"1"}})
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertEnvelope(t, w, "success", "Winner status revoked successfully")

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"revoke_winner"}, "id": {"1"}})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, "error", "Participant is not a winner")
}

func TestWinnerErrors(t *testing.T) {
	r := setup(t)

	w := testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"select_winner"}})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, "error", "Participant ID is required")

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"select_winner"}, "id": {"x1"}})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, "error", "Invalid participant ID format")

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"select_winner"}, "id": {"77"}})
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertEnvelope(t, w, "error", "Participant not found")

	w = testutil.MakeRequest(t, r, http.MethodPost, "/winner", url.Values{"action": {"crown"}, "id": {"1"}})
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, "error", "Invalid action specified")

	w = testutil.MakeRequest(t, r, http.MethodGet, "/winner?action=select_winner&id=1", nil)
	testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
	testutil.AssertEnvelope(t, w, "error", "GET method not supported for winner operations")
}
