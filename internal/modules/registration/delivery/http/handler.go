package handler

import (
	"net/http"

	"anoa.com/eventtech/internal/modules/registration/dto"
	registrationService "anoa.com/eventtech/internal/modules/registration/service"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service registrationService.RegistrationService
}

func NewRegistrationHandler(service registrationService.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Register serves POST /register.
func (h *RegistrationHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "Registration failed. Please try again.")
		return
	}

	res, err := h.service.Register(c.Request.Context(), form)
	if err != nil {
		response.ResponseError(c, err, "Registration failed. Please try again.")
		return
	}

	fields := gin.H{"registration_id": res.RegistrationID}
	if res.CertificateData != nil {
		fields["certificate_data"] = res.CertificateData
	}
	response.Success(c, res.Message, fields)
}

// HandleGet serves GET /register. Only the duplicate pre-check is
// supported; registering requires POST.
func (h *RegistrationHandler) HandleGet(c *gin.Context) {
	if param.Action(c) != "check" {
		response.Error(c, http.StatusMethodNotAllowed, "GET method not supported for registration")
		return
	}

	email := param.Value(c, "email")
	event := param.Value(c, "event")
	if email == "" || event == "" {
		response.Error(c, http.StatusBadRequest, "Email and event are required")
		return
	}

	response.Success(c, "", gin.H{"registered": h.service.IsRegistered(c.Request.Context(), email, event)})
}
