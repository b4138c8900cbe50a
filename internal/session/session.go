// Package session gives every browser a stable anonymous visitor id, carried
// in a signed cookie. The id namespaces the visitor's stored state.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CookieName holds the signed visitor token
	CookieName = "sw_visitor"
	// DefaultTTL is how long a visitor identity lives
	DefaultTTL = 365 * 24 * time.Hour

	contextKey = "visitor_id"
	issuer     = "sentiment-web"
)

// Manager issues and validates visitor tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(secret []byte, ttl time.Duration, secure bool, logger *zap.Logger) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: secret, ttl: ttl, secure: secure, logger: logger, now: time.Now}, nil
}

// Issue signs a token for visitorID
func (m *Manager) Issue(visitorID string) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   visitorID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign visitor token: %w", err)
	}
	return token, nil
}

// Parse validates tokenString and returns the visitor id it carries
func (m *Manager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("invalid visitor id: %w", err)
	}
	return claims.Subject, nil
}

// Middleware resolves the visitor from the cookie, issuing a fresh identity
// when the cookie is missing, expired or tampered with.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(CookieName); err == nil {
			visitorID, err := m.Parse(raw)
			if err == nil {
				c.Set(contextKey, visitorID)
				c.Next()
				return
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				m.logger.Warn("Invalid visitor token, issuing a new one", zap.Error(err))
			}
		}

		visitorID := uuid.NewString()
		token, err := m.Issue(visitorID)
		if err != nil {
			m.logger.Error("Failed to issue visitor token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
		c.Set(contextKey, visitorID)
		c.Next()
	}
}

// VisitorID returns the id resolved by the middleware
func VisitorID(c *gin.Context) string {
	return c.GetString(contextKey)
}
