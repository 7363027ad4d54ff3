package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"anoa.com/eventtech/internal/bootstrap"
	"anoa.com/eventtech/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// SetupTestDB opens a private in-memory database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, bootstrap.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// MakeRequest performs a request against the router. A url.Values body is
// sent form encoded, anything else non-nil as JSON.
func MakeRequest(t *testing.T, router http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}

	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeJSON unmarshals the recorded body into a generic map.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// AssertStatus fails with the response body when the code differs.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, w.Code, "body: %s", w.Body.String())
}

// AssertEnvelope checks the status field and message of a JSON envelope.
func AssertEnvelope(t *testing.T, w *httptest.ResponseRecorder, status, message string) map[string]any {
	t.Helper()

	body := DecodeJSON(t, w)
	require.Equal(t, status, body["status"], "body: %s", w.Body.String())
	if message != "" {
		require.Equal(t, message, body["message"], "body: %s", w.Body.String())
	}
	return body
}

// NewRouter returns a gin engine in test mode with the custom validation
// tags installed.
func NewRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Register()
	return gin.New()
}

// RedisClient connects to TEST_REDIS_URL and skips the test when it is unset.
func RedisClient(t *testing.T) *redis.Client {
	t.Helper()

	raw := os.Getenv("TEST_REDIS_URL")
	if raw == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	opt, err := redis.ParseURL(raw)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
