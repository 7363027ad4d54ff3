package param

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"anoa.com/eventtech/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string, form url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c
}

func TestAction(t *testing.T) {
	assert.Equal(t, "get_events", Action(newContext(http.MethodGet, "/?action=get_events", nil)))
	assert.Equal(t, "add_event", Action(newContext(http.MethodPost, "/", url.Values{"action": {" add_event "}})))
	assert.Equal(t, "", Action(newContext(http.MethodGet, "/", nil)))
}

func TestID(t *testing.T) {
	id, err := ID(newContext(http.MethodGet, "/?id=42", nil), "id", "Participant")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	id, err = ID(newContext(http.MethodPost, "/", url.Values{"id": {"7"}}), "id", "Event")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = ID(newContext(http.MethodGet, "/", nil), "id", "Participant")
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, "Participant ID is required", err.(*apperror.AppError).Message)

	for _, raw := range []string{"abc", "-1", "0", "1.5"} {
		_, err = ID(newContext(http.MethodGet, "/?id="+raw, nil), "id", "Event")
		require.ErrorIs(t, err, apperror.ErrInvalidInput, raw)
		assert.Equal(t, "Invalid event ID format", err.(*apperror.AppError).Message)
	}
}
