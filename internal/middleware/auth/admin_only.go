package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/models"
)

func (g *Guard) RequireAdmin() echo.MiddlewareFunc {
	login := g.RequireLogin()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return login(requireRole(models.RoleAdmin, next))
	}
}

func requireRole(role string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		if claims.Role != role {
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}
		return next(c)
	}
}
