package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	CookieName = "eventtech_session"

	DefaultMaxLifetime = 12 * time.Hour
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Claims carried by the signed session cookie. Subject holds the admin id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	// StartedAt is fixed at login and survives refreshes.
	StartedAt *jwt.NumericDate `json:"started_at,omitempty"`
	jwt.RegisteredClaims
}

// AdminID parses the subject back into an admin id.
func (c *Claims) AdminID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidSession
	}
	return uint(id), nil
}

// Manager issues and verifies admin sessions. Expiry slides: every
// verified request re-issues the cookie with a fresh inactivity window,
// up to maxLifetime after login. With redis present sessions are also
// tracked server side so logout revokes them immediately; without it a
// copied token stays usable until it expires.
type Manager struct {
	secret      []byte
	ttl         time.Duration
	maxLifetime time.Duration
	rdb         *redis.Client
	secure      bool
}

func NewManager(secret string, ttl time.Duration, rdb *redis.Client, secure bool) *Manager {
	if secret == "" {
		secret = "change-me"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{
		secret:      []byte(secret),
		ttl:         ttl,
		maxLifetime: DefaultMaxLifetime,
		rdb:         rdb,
		secure:      secure,
	}
}

// WithMaxLifetime sets the absolute session lifetime. Values below the
// inactivity window are raised to it.
func (m *Manager) WithMaxLifetime(d time.Duration) *Manager {
	m.maxLifetime = max(d, m.ttl)
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func sessionKey(id string) string {
	return "session:" + id
}

// Issue starts a new session for the admin.
func (m *Manager) Issue(ctx context.Context, adminID uint, username, role string) (string, *Claims, error) {
	claims := &Claims{
		Username:  username,
		Role:      role,
		StartedAt: jwt.NewNumericDate(time.Now()),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:      uuid.NewString(),
			Subject: strconv.FormatUint(uint64(adminID), 10),
		},
	}

	if m.rdb != nil {
		if err := m.rdb.Set(ctx, sessionKey(claims.ID), claims.Subject, m.ttl).Err(); err != nil {
			return "", nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	token, err := m.sign(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Refresh extends the inactivity window of a verified session.
func (m *Manager) Refresh(ctx context.Context, claims *Claims) (string, error) {
	if m.rdb != nil {
		if err := m.rdb.Expire(ctx, sessionKey(claims.ID), m.ttl).Err(); err != nil {
			return "", fmt.Errorf("failed to refresh session: %w", err)
		}
	}
	return m.sign(claims)
}

func (m *Manager) sign(claims *Claims) (string, error) {
	now := time.Now()
	expires := now.Add(m.ttl)
	if claims.StartedAt != nil {
		if limit := claims.StartedAt.Add(m.maxLifetime); expires.After(limit) {
			expires = limit
		}
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expires)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Parse verifies the token signature and expiry, then checks the server
// side record when redis is configured.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.StartedAt == nil || time.Since(claims.StartedAt.Time) > m.maxLifetime {
		return nil, ErrInvalidSession
	}

	if m.rdb != nil {
		subject, err := m.rdb.Get(ctx, sessionKey(claims.ID)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalidSession
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if subject != claims.Subject {
			return nil, ErrInvalidSession
		}
	}

	return claims, nil
}

// Revoke ends the session server side.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if m.rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}
	return m.rdb.Del(ctx, sessionKey(claims.ID)).Err()
}

// TokenFromRequest reads the session cookie, falling back to a bearer
// token for API clients.
func (m *Manager) TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func (m *Manager) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}
