package handler

import (
	"fmt"
	"net/http"

	"anoa.com/eventtech/internal/modules/export/dto"
	exportService "anoa.com/eventtech/internal/modules/export/service"
	"anoa.com/eventtech/pkg/param"
	"anoa.com/eventtech/pkg/response"
	"github.com/gin-gonic/gin"
)

const ArchiveHeader = "X-Archive-URL"

type ExportHandler struct {
	service exportService.ExportService
}

func NewExportHandler(service exportService.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export serves GET /export?format=csv|html|json with optional event and
// winner filters.
func (h *ExportHandler) Export(c *gin.Context) {
	adminID, err := response.GetAdminID(c)
	if err != nil {
		response.ResponseError(c, err, "")
		return
	}

	filter := dto.Filter{
		Event:  param.Value(c, "event"),
		Winner: param.Value(c, "winner"),
	}

	file, err := h.service.Export(c.Request.Context(), adminID, param.Value(c, "format"), filter)
	if err != nil {
		response.ResponseError(c, err, "Failed to export data")
		return
	}

	SendFile(c, file)
}

// SendFile writes the export as a download.
func SendFile(c *gin.Context, file *dto.File) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	if file.ArchiveURL != "" {
		c.Header(ArchiveHeader, file.ArchiveURL)
	}
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
