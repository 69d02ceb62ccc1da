package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-service/pkg/jwtutil"
)

const opaqueBody = `{"error":"invalid or expired token"}`

func newAuthTestServer(t *testing.T) (*echo.Echo, *jwtutil.JWTUtil) {
	t.Helper()

	jwtUtil := jwtutil.New(&jwtutil.Config{SigningKey: "test-key", ExpirationHours: 168})

	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		claims := ClaimsFromContext(c)
		require.NotNil(t, claims)
		return c.JSON(http.StatusOK, echo.Map{"sub": claims.Sub, "tenantId": claims.TenantID})
	}, Auth(jwtUtil))

	return e, jwtUtil
}

func TestAuth_MissingHeader(t *testing.T) {
	e, _ := newAuthTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, opaqueBody, rec.Body.String())
}

func TestAuth_BadScheme(t *testing.T) {
	e, _ := newAuthTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, opaqueBody, rec.Body.String())
}

func TestAuth_InvalidToken(t *testing.T) {
	e, _ := newAuthTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, opaqueBody, rec.Body.String())
}

func TestAuth_ExpiredTokenGetsSameOpaqueBody(t *testing.T) {
	e, jwtUtil := newAuthTestServer(t)

	tok, err := jwtUtil.GenerateWithLifetime(1, "user@acme.test", "member", 3, "acme", "free", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// The client must not be able to tell expiry apart from any other
	// verification failure.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, opaqueBody, rec.Body.String())
}

func TestAuth_ValidTokenReachesHandler(t *testing.T) {
	e, jwtUtil := newAuthTestServer(t)

	tok, err := jwtUtil.Generate(7, "admin@acme.test", "admin", 3, "acme", "pro")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sub":7,"tenantId":3}`, rec.Body.String())
}
