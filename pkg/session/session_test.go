package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false)
	ctx := context.Background()

	token, issued, err := m.Issue(ctx, 7, "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)

	id, err := claims.AdminID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	token, _, err := NewManager("one", time.Hour, nil, false).Issue(ctx, 1, "a", "admin")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, nil, false).Parse(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false)
	claims := &Claims{
		Role:      "admin",
		StartedAt: jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseRejectsEmptyAndGarbage(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false)
	_, err := m.Parse(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = m.Parse(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRefreshExtendsExpiry(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false)
	ctx := context.Background()

	_, claims, err := m.Issue(ctx, 3, "root", "admin")
	require.NoError(t, err)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Minute))

	token, err := m.Refresh(ctx, claims)
	require.NoError(t, err)

	parsed, err := m.Parse(ctx, token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), parsed.ExpiresAt.Time, 5*time.Second)
}

func TestAdminIDRejectsBadSubject(t *testing.T) {
	_, err := (&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}).AdminID()
	assert.ErrorIs(t, err, ErrInvalidSession)
	_, err = (&Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "0"}}).AdminID()
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestTokenFromRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager("secret", time.Hour, nil, false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", m.TokenFromRequest(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", m.TokenFromRequest(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", m.TokenFromRequest(c))
}

func TestSetCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager("secret", time.Hour, nil, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetCookie(c, "tok")

	cookie := w.Result().Cookies()[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
}

func TestRefreshStopsAtMaxLifetime(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false).WithMaxLifetime(90 * time.Minute)
	ctx := context.Background()

	_, claims, err := m.Issue(ctx, 3, "root", "admin")
	require.NoError(t, err)
	claims.StartedAt = jwt.NewNumericDate(time.Now().Add(-80 * time.Minute))

	token, err := m.Refresh(ctx, claims)
	require.NoError(t, err)

	parsed, err := m.Parse(ctx, token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), parsed.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsSessionPastMaxLifetime(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false).WithMaxLifetime(2 * time.Hour)

	sign := func(started *jwt.NumericDate) string {
		claims := &Claims{
			Role:      "admin",
			StartedAt: started,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}

	_, err := m.Parse(context.Background(), sign(jwt.NewNumericDate(time.Now().Add(-3*time.Hour))))
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Parse(context.Background(), sign(nil))
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = m.Parse(context.Background(), sign(jwt.NewNumericDate(time.Now().Add(-time.Hour))))
	assert.NoError(t, err)
}

func TestWithMaxLifetimeNeverBelowTTL(t *testing.T) {
	m := NewManager("secret", time.Hour, nil, false).WithMaxLifetime(time.Minute)
	assert.Equal(t, time.Hour, m.maxLifetime)
}
