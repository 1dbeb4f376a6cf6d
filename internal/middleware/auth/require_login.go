package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/tokens"
)

// Guard authenticates requests from the access cookie (or a bearer header)
// and silently rotates an expired session using the refresh cookie.
type Guard struct {
	Auth         *service.AuthService
	SecureCookie bool
}

func (g *Guard) RequireLogin() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:   "cookie:" + AccessCookie + ",header:Authorization:Bearer ",
		ContextKey:    contextKey,
		SigningKey:    g.Auth.Tokens.AccessSecret,
		SigningMethod: "HS256",
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(tokens.AccessClaims) },
		ContinueOnIgnoredError: true,
		ErrorHandler:           g.refresh,
	})
}

// refresh runs when the access token is missing or unusable. Returning nil
// lets the request through with the rotated session.
func (g *Guard) refresh(c echo.Context, err error) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("middleware", "auth.refresh")

	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed) {
		l.Warnw("access_token_rejected", "status", http.StatusUnauthorized, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	rf, cerr := c.Cookie(RefreshCookie)
	if cerr != nil || rf.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	pair, rerr := g.Auth.Refresh(ctx, rf.Value)
	if rerr != nil {
		l.Warnw("refresh_failed", "status", http.StatusUnauthorized, "error", rerr)
		ClearTokenCookies(c, g.SecureCookie)
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}

	claims, perr := g.Auth.Tokens.ParseAccess(pair.Access.Raw)
	if perr != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}

	SetTokenCookies(c, pair, g.SecureCookie)
	setUserContext(c, claims)
	l.Infow("session_rotated", "user_id", claims.Subject)
	return nil
}
