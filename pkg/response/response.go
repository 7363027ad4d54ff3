package response

import (
	"log"
	"net/http"

	"anoa.com/eventtech/pkg/apperror"
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// GetAdminID retrieves the authenticated admin ID from the context
func GetAdminID(c *gin.Context) (uint, error) {
	v, exists := c.Get("admin_id")
	if !exists {
		return 0, apperror.ErrUnauthorized
	}

	adminID, ok := v.(uint)
	if !ok || adminID == 0 {
		return 0, apperror.ErrUnauthorized
	}

	return adminID, nil
}

// Success writes the success envelope with any extra fields merged in.
func Success(c *gin.Context, message string, fields gin.H) {
	body := gin.H{"status": StatusSuccess}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error writes the error envelope with an explicit status code.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": StatusError, "message": message})
}

// ResponseError standardized error response. fallback is used as the
// message whenever err does not carry one that is safe to show.
func ResponseError(c *gin.Context, err error, fallback string) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	Error(c, code, apperror.PublicMessage(err, fallback))
}
