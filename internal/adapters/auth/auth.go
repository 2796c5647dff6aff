// Package auth issues and verifies the session JWT and resolves the caller's
// identity for HTTP and websocket requests.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ctxUserID   = "user_id"
	ctxDeviceID = "device_id"
)

var ErrUnauthorized = errors.New("unauthorized")

// Claims is the session token payload. Subject carries the user id.
type Claims struct {
	DeviceID string `json:"did,omitempty"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	allowQuery bool
	now        func() time.Time
}

func New(secret, cookieName string, ttl time.Duration, allowQueryIdentity bool) *Authenticator {
	if cookieName == "" {
		cookieName = "jwt"
	}
	return &Authenticator{
		secret:     []byte(secret),
		cookieName: cookieName,
		ttl:        ttl,
		allowQuery: allowQueryIdentity,
		now:        time.Now,
	}
}

func (a *Authenticator) CookieName() string { return a.cookieName }
func (a *Authenticator) TTL() time.Duration { return a.ttl }

// Issue signs a token for uid, optionally bound to a linked device.
func (a *Authenticator) Issue(uid domain.UserID, deviceID string) (string, error) {
	now := a.now()
	claims := Claims{
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(uid),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// tokenFrom looks at the cookie, then a bearer header, then ?token=.
func (a *Authenticator) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(a.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// Identify resolves the caller. With query identity enabled an unauthenticated
// ?userId= is trusted; that mode exists for local clients only.
func (a *Authenticator) Identify(r *http.Request) (domain.UserID, string, error) {
	claims, err := a.Verify(a.tokenFrom(r))
	if err == nil {
		return domain.UserID(claims.Subject), claims.DeviceID, nil
	}
	if a.allowQuery {
		if uid := r.URL.Query().Get("userId"); uid != "" {
			return domain.UserID(uid), "", nil
		}
	}
	return "", "", err
}

// Middleware rejects requests without a valid identity.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, did, err := a.Identify(c.Request)
		if err != nil {
			log.Debug().Str("module", "adapters.auth").Str("ip", c.ClientIP()).Msg("unauthorized request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - No Token Provided"})
			return
		}
		c.Set(ctxUserID, string(uid))
		c.Set(ctxDeviceID, did)
		c.Next()
	}
}

// SetCookie writes the session token the way the web client expects it.
func (a *Authenticator) SetCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookieName, token, int(a.ttl/time.Second), "/", "", secure, true)
}

func UserID(c *gin.Context) domain.UserID {
	return domain.UserID(c.GetString(ctxUserID))
}

func DeviceID(c *gin.Context) string {
	return c.GetString(ctxDeviceID)
}
