package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	a := New("s3cret", "jwt", time.Hour, false)
	tok, err := a.Issue("alice", "laptop")
	require.NoError(t, err)

	claims, err := a.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "laptop", claims.DeviceID)
}

func TestVerifyRejectsForeignAndExpired(t *testing.T) {
	a := New("s3cret", "jwt", time.Hour, false)
	other := New("different", "jwt", time.Hour, false)
	tok, err := other.Issue("alice", "")
	require.NoError(t, err)
	_, err = a.Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)

	past := time.Now().Add(-2 * time.Hour)
	a.now = func() time.Time { return past }
	tok, err = a.Issue("alice", "")
	require.NoError(t, err)
	a.now = time.Now
	_, err = a.Verify(tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIdentifySources(t *testing.T) {
	a := New("s3cret", "jwt", time.Hour, false)
	tok, _ := a.Issue("bob", "")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "jwt", Value: tok})
	uid, _, err := a.Identify(r)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("bob"), uid)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	uid, _, err = a.Identify(r)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("bob"), uid)

	r = httptest.NewRequest(http.MethodGet, "/?userId=eve", nil)
	_, _, err = a.Identify(r)
	assert.ErrorIs(t, err, ErrUnauthorized)

	a.allowQuery = true
	uid, _, err = a.Identify(r)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("eve"), uid)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := New("s3cret", "jwt", time.Hour, false)
	r := gin.New()
	r.GET("/me", a.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, string(UserID(c)))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok, _ := a.Issue("carol", "")
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "carol", w.Body.String())
}
