package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	// contextKey is where the verified access token is stored on echo.Context.
	contextKey = "user"
)

func CreateCookie(name, value, path string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func SetTokenCookies(c echo.Context, pair *service.TokenPair, secure bool) {
	c.SetCookie(CreateCookie(AccessCookie, pair.Access.Raw, "/", pair.Access.ExpiresAt, secure))
	c.SetCookie(CreateCookie(RefreshCookie, pair.Refresh.Raw, "/", pair.Refresh.ExpiresAt, secure))
}

func ClearTokenCookies(c echo.Context, secure bool) {
	for _, name := range []string{AccessCookie, RefreshCookie} {
		ck := CreateCookie(name, "", "/", time.Unix(0, 0), secure)
		ck.MaxAge = -1
		c.SetCookie(ck)
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(contextKey, &jwt.Token{Claims: claims, Valid: true})
}

// Claims returns the access claims of an authenticated request.
func Claims(c echo.Context) (*tokens.AccessClaims, bool) {
	tok, isToken := c.Get(contextKey).(*jwt.Token)
	if !isToken || tok == nil {
		return nil, false
	}
	claims, isAccess := tok.Claims.(*tokens.AccessClaims)
	return claims, isAccess
}
