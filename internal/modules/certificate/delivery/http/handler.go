package handler

import (
	"net/http"

	certService "anoa.com/eventtech/internal/modules/certificate/service"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"github.com/gin-gonic/gin"
)

type CertificateHandler struct {
	service certService.CertificateService
}

func NewCertificateHandler(service certService.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

// HandleGet serves GET /certificate. The history action must be mounted
// behind the admin guard.
func (h *CertificateHandler) HandleGet(c *gin.Context) {
	switch param.Action(c) {
	case "verify":
		h.Verify(c)
	case "history":
		h.History(c)
	default:
		response.Error(c, http.StatusBadRequest, "Invalid action specified")
	}
}

func (h *CertificateHandler) Verify(c *gin.Context) {
	verification, err := h.service.Verify(c.Request.Context(), param.Value(c, "certificate_id"))
	if err != nil {
		response.ResponseError(c, err, "Failed to verify certificate")
		return
	}

	response.Success(c, "", gin.H{"verification": verification})
}

func (h *CertificateHandler) History(c *gin.Context) {
	id, err := param.ID(c, "id", "Participant")
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	history, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch certificate history")
		return
	}

	response.Success(c, "", gin.H{"history": history})
}
