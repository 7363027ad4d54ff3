package handler

import (
	"net/http"
	"strconv"

	dashboardService "anoa.com/eventtech/internal/modules/dashboard/service"
	exportHttp "anoa.com/eventtech/internal/modules/export/delivery/http"
	exportService "anoa.com/eventtech/internal/modules/export/service"
	commonDto "anoa.com/eventtech/pkg/dto"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"github.com/gin-gonic/gin"
)

const invalidAction = "Invalid action specified"

type DashboardHandler struct {
	service dashboardService.DashboardService
	exports exportService.ExportService
}

func NewDashboardHandler(service dashboardService.DashboardService, exports exportService.ExportService) *DashboardHandler {
	return &DashboardHandler{service: service, exports: exports}
}

// HandleGet serves GET /admin-dashboard.
func (h *DashboardHandler) HandleGet(c *gin.Context) {
	switch param.Action(c) {
	case "get_participants":
		h.GetParticipants(c)
	case "get_statistics":
		h.GetStatistics(c)
	case "export_csv":
		h.ExportCSV(c)
	case "export_html":
		h.ExportHTML(c)
	case "get_audit_log":
		h.GetAuditLog(c)
	case "get_winners":
		h.GetWinners(c)
	case "search_participants":
		h.SearchParticipants(c)
	default:
		response.Error(c, http.StatusBadRequest, invalidAction)
	}
}

// HandlePost serves POST /admin-dashboard.
func (h *DashboardHandler) HandlePost(c *gin.Context) {
	switch param.Action(c) {
	case "delete_participant":
		h.DeleteParticipant(c)
	default:
		response.Error(c, http.StatusBadRequest, invalidAction)
	}
}

func (h *DashboardHandler) GetParticipants(c *gin.Context) {
	page := commonDto.PageRequest{
		Page:  param.Value(c, "page"),
		Limit: param.Value(c, "limit"),
	}

	res, err := h.service.Participants(c.Request.Context(), page)
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch participants")
		return
	}

	response.Success(c, "", gin.H{
		"participants": res.Participants,
		"pagination":   res.Pagination,
	})
}

func (h *DashboardHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch statistics")
		return
	}

	response.Success(c, "", gin.H{"statistics": stats})
}

func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	file, err := h.exports.DashboardCSV(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err, "Failed to export CSV")
		return
	}
	exportHttp.SendFile(c, file)
}

func (h *DashboardHandler) ExportHTML(c *gin.Context) {
	file, err := h.exports.DashboardHTML(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err, "Failed to export HTML")
		return
	}
	exportHttp.SendFile(c, file)
}

func (h *DashboardHandler) GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(param.Value(c, "limit"))

	entries, err := h.service.AuditLog(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch audit log")
		return
	}

	response.Success(c, "", gin.H{"audit_log": entries})
}

func (h *DashboardHandler) GetWinners(c *gin.Context) {
	winners, err := h.service.Winners(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err, "Failed to fetch winners")
		return
	}

	response.Success(c, "", gin.H{"winners": winners})
}

func (h *DashboardHandler) SearchParticipants(c *gin.Context) {
	participants, err := h.service.Search(c.Request.Context(), param.Value(c, "q"))
	if err != nil {
		response.ResponseError(c, err, "Failed to search participants")
		return
	}

	response.Success(c, "", gin.H{"participants": participants})
}

func (h *DashboardHandler) DeleteParticipant(c *gin.Context) {
	id, err := param.ID(c, "id", "Participant")
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	adminID, err := response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	if err := h.service.DeleteParticipant(c.Request.Context(), adminID, id); err != nil {
		response.ResponseError(c, err, "Failed to delete participant")
		return
	}

	response.Success(c, "Participant deleted successfully", nil)
}
