package handler

import (
	"net/http"

	winnerService "anoa.com/eventtech/internal/modules/winner/service"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"github.com/gin-gonic/gin"
)

type WinnerHandler struct {
	service winnerService.WinnerService
}

func NewWinnerHandler(service winnerService.WinnerService) *WinnerHandler {
	return &WinnerHandler{service: service}
}

// HandlePost serves POST /winner.
func (h *WinnerHandler) HandlePost(c *gin.Context) {
	switch param.Action(c) {
	case "select_winner":
		h.SelectWinner(c)
	case "revoke_winner":
		h.RevokeWinner(c)
	case "generate_winner_certificate":
		h.GenerateCertificate(c)
	default:
		response.Error(c, http.StatusBadRequest, "Invalid action specified")
	}
}

func (h *WinnerHandler) HandleGet(c *gin.Context) {
	response.Error(c, http.StatusMethodNotAllowed, "GET method not supported for winner operations")
}

// target resolves the participant id and acting admin shared by every action.
func target(c *gin.Context) (adminID, id uint, ok bool) {
	id, err := param.ID(c, "id", "Participant")
	if err != nil {
		response.ResponseError(c, err, "")
		return 0, 0, false
	}

	adminID, err = response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return 0, 0, false
	}
	return adminID, id, true
}

func (h *WinnerHandler) SelectWinner(c *gin.Context) {
	adminID, id, ok := target(c)
	if !ok {
		return
	}

	certificate, err := h.service.SelectWinner(c.Request.Context(), adminID, id)
	if err != nil {
		response.ResponseError(c, err, "Failed to select winner")
		return
	}

	fields := gin.H{}
	if certificate != nil {
		fields["certificate_data"] = certificate
	}
	response.Success(c, "Winner selected successfully! Winner certificate is ready for download.", fields)
}

func (h *WinnerHandler) RevokeWinner(c *gin.Context) {
	adminID, id, ok := target(c)
	if !ok {
		return
	}

	if err := h.service.RevokeWinner(c.Request.Context(), adminID, id); err != nil {
		response.ResponseError(c, err, "Failed to revoke winner status")
		return
	}

	response.Success(c, "Winner status revoked successfully", nil)
}

func (h *WinnerHandler) GenerateCertificate(c *gin.Context) {
	adminID, id, ok := target(c)
	if !ok {
		return
	}

	certificate, err := h.service.GenerateWinnerCertificate(c.Request.Context(), adminID, id)
	if err != nil {
		response.ResponseError(c, err, "Failed to generate winner certificate")
		return
	}

	response.Success(c, "Winner certificate generated successfully", gin.H{"certificate_data": certificate})
}
