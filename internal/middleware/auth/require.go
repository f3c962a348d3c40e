package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/openbasket/marketplace/internal/models"
)

type Middleware struct {
	JWTSecret []byte
}

// RequireUser authenticates the request from the accessToken cookie or a
// bearer header and puts userID/role into the echo context.
func (m *Middleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.parseToken(c)
		if err != nil {
			return err
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
		}
		role, ok := claims["role"].(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid role claim")
		}

		c.Set("userID", uint(sub))
		c.Set("role", role)
		return next(c)
	}
}

// RequireShopOwner additionally demands the shop_owner role.
func (m *Middleware) RequireShopOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireUser(func(c echo.Context) error {
		if c.Get("role") != models.RoleShopOwner {
			return echo.NewHTTPError(http.StatusForbidden, "requires shop_owner role")
		}
		return next(c)
	})
}

func (m *Middleware) parseToken(c echo.Context) (jwt.MapClaims, error) {
	tokenString := ""
	if cookie, err := c.Cookie("accessToken"); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		tokenString = strings.TrimPrefix(header, "Bearer ")
	}
	if tokenString == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}
