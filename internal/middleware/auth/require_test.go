package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/openbasket/marketplace/internal/models"
)

func signToken(t *testing.T, secret []byte, userID uint, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func newContext(token string, viaCookie bool) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		if viaCookie {
			req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		} else {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireUserFromCookie(t *testing.T) {
	secret := []byte("test_secret")
	m := &Middleware{JWTSecret: secret}

	c, _ := newContext(signToken(t, secret, 5, models.RoleNormal), true)
	called := false
	err := m.RequireUser(func(c echo.Context) error {
		called = true
		require.Equal(t, uint(5), c.Get("userID"))
		require.Equal(t, models.RoleNormal, c.Get("role"))
		return nil
	})(c)
	require.NoError(t, err)
	require.True(t, called)
}

func TestRequireUserFromBearerHeader(t *testing.T) {
	secret := []byte("test_secret")
	m := &Middleware{JWTSecret: secret}

	c, _ := newContext(signToken(t, secret, 5, models.RoleNormal), false)
	err := m.RequireUser(func(c echo.Context) error { return nil })(c)
	require.NoError(t, err)
}

func TestRequireUserRejectsMissingToken(t *testing.T) {
	m := &Middleware{JWTSecret: []byte("test_secret")}

	c, _ := newContext("", true)
	err := m.RequireUser(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireUserRejectsBadSignature(t *testing.T) {
	m := &Middleware{JWTSecret: []byte("test_secret")}

	c, _ := newContext(signToken(t, []byte("other_secret"), 5, models.RoleNormal), true)
	err := m.RequireUser(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireShopOwner(t *testing.T) {
	secret := []byte("test_secret")
	m := &Middleware{JWTSecret: secret}

	c, _ := newContext(signToken(t, secret, 5, models.RoleShopOwner), true)
	require.NoError(t, m.RequireShopOwner(func(c echo.Context) error { return nil })(c))

	c, _ = newContext(signToken(t, secret, 5, models.RoleNormal), true)
	err := m.RequireShopOwner(func(c echo.Context) error { return nil })(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.Code)
}
