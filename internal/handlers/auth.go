package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	authmw "github.com/Skotchmaster/kamishop/internal/middleware/auth"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

type AuthHandler struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.CredentialsRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "register_failed", err)
	}
	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, l, "register_failed", err)
	}
	l.Infow("register_success", "user_id", user.ID)
	return respond(c, http.StatusCreated, "注册成功", user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.CredentialsRequest
	if err := bind(c, &req); err != nil {
		return fail(c, l, "login_failed", err)
	}
	pair, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(c, l, "login_failed", err)
	}

	authmw.SetTokenCookies(c, pair, h.SecureCookie)
	l.Infow("login_success", "role", pair.Role)
	return ok(c, "登录成功", map[string]any{
		"role":       pair.Role,
		"expires_at": pair.Access.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	raw := ""
	if ck, err := c.Cookie(authmw.RefreshCookie); err == nil {
		raw = ck.Value
	}
	if err := h.Svc.Logout(ctx, raw); err != nil {
		return fail(c, l, "logout_failed", err)
	}
	authmw.ClearTokenCookies(c, h.SecureCookie)
	return ok(c, "退出登录成功", nil)
}

func (h *AuthHandler) Me(c echo.Context) error {
	claims, found := authmw.Claims(c)
	if !found {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return ok(c, "用户信息查询成功", map[string]string{"id": claims.Subject, "role": claims.Role})
}
