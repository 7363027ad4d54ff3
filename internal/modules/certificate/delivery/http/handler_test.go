package handler_test

import (
	"context"
	"net/http"
	"testing"

	"anoa.com/eventtech/internal/entity"
	certHttp "anoa.com/eventtech/internal/modules/certificate/delivery/http"
	"anoa.com/eventtech/internal/modules/certificate/repository"
	"anoa.com/eventtech/internal/modules/certificate/service"
	registrationRepo "anoa.com/eventtech/internal/modules/registration/repository"
	"anoa.com/eventtech/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewCertificateService(
		repository.NewCertificateRepository(db),
		registrationRepo.NewRegistrationRepository(db),
		nil,
		"",
	)
	h := certHttp.NewCertificateHandler(svc)

	r := testutil.NewRouter()
	r.GET("/certificate", h.HandleGet)

	reg := &entity.Registration{Name: "Ana", Email: "ana@example.com", College: "ITB", Event: "Hackathon"}
	require.NoError(t, db.Create(reg).Error)
	data, err := svc.Issue(context.Background(), reg.ID, entity.CertificateParticipation)
	require.NoError(t, err)

	w := testutil.MakeRequest(t, r, http.MethodGet, "/certificate?action=verify&certificate_id="+data.CertificateID, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	verification := testutil.AssertEnvelope(t, w, "success", "")["verification"].(map[string]any)
	assert.Equal(t, true, verification["valid"])
	assert.Equal(t, "Ana", verification["name"])

	w = testutil.MakeRequest(t, r, http.MethodGet, "/certificate?action=verify&certificate_id=PAR-0-0", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	verification = testutil.AssertEnvelope(t, w, "success", "")["verification"].(map[string]any)
	assert.Equal(t, false, verification["valid"])

	w = testutil.MakeRequest(t, r, http.MethodGet, "/certificate?action=verify", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, "error", "Certificate ID is required")

	w = testutil.MakeRequest(t, r, http.MethodGet, "/certificate?action=history&id=1", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	history := testutil.AssertEnvelope(t, w, "success", "")["history"].([]any)
	assert.Len(t, history, 1)

	w = testutil.MakeRequest(t, r, http.MethodGet, "/certificate?action=nope", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertEnvelope(t, w, "error", "Invalid action specified")
}
