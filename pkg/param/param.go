package param

import (
	"fmt"
	"strconv"
	"strings"

	"anoa.com/eventtech/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// Action returns the action parameter from the query string or the
// submitted form.
func Action(c *gin.Context) string {
	if action := c.Query("action"); action != "" {
		return strings.TrimSpace(action)
	}
	return strings.TrimSpace(c.PostForm("action"))
}

// Value returns a trimmed parameter from the query string or the form.
func Value(c *gin.Context, key string) string {
	if v, ok := c.GetQuery(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(c.PostForm(key))
}

// ID parses a positive numeric id. subject names the entity in the
// validation messages, e.g. "Participant" or "Event".
func ID(c *gin.Context, key, subject string) (uint, error) {
	raw := Value(c, key)
	if raw == "" {
		return 0, apperror.Validation(fmt.Sprintf("%s ID is required", subject))
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(fmt.Sprintf("Invalid %s ID format", strings.ToLower(subject)))
	}

	return uint(id), nil
}
