package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kamishop/internal/handlers"
	"github.com/Skotchmaster/kamishop/internal/mailer"
	authmw "github.com/Skotchmaster/kamishop/internal/middleware/auth"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/seed"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/storage"
	"github.com/Skotchmaster/kamishop/internal/testutil"
	"github.com/Skotchmaster/kamishop/internal/tokens"
	"github.com/Skotchmaster/kamishop/internal/transport"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()
	gdb := testutil.InitTestDB(t)
	require.NoError(t, seed.Example(ctx, gdb, time.Now().UTC()))

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{Repo: r, Tokens: tokens.Issuer{AccessSecret: []byte("a"), RefreshSecret: []byte("r")}}
	require.NoError(t, authSvc.EnsureAdmin(ctx, transport.CredentialsRequest{Email: "admin@qq.com", Password: "admin123"}))

	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)
	catalog := &service.CatalogService{Repo: r}
	orders := &service.OrderService{Repo: r}
	settings := &service.SettingsService{Repo: r, Mailer: &mailer.Recorder{}}

	e := echo.New()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	Register(e, &Deps{
		DB:                gdb,
		Guard:             &authmw.Guard{Auth: authSvc},
		AuthHandler:       &handlers.AuthHandler{Svc: authSvc},
		DashboardHandler:  &handlers.DashboardHandler{Svc: &service.DashboardService{Repo: r}},
		CatalogHandler:    &handlers.CatalogHandler{Svc: catalog},
		CardHandler:       &handlers.CardHandler{Svc: &service.CardService{Repo: r}},
		OrderHandler:      &handlers.OrderHandler{Svc: orders},
		UserHandler:       &handlers.UserHandler{Svc: &service.UserService{Repo: r}},
		SettingsHandler:   &handlers.SettingsHandler{Svc: settings},
		ImageHandler:      &handlers.ImageHandler{Store: images},
		StorefrontHandler: &handlers.StorefrontHandler{Catalog: catalog, Orders: orders, Settings: settings},
	})
	return e
}

func serve(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	e := newServer(t)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/metrics", "").Code)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	e := newServer(t)

	rec := serve(e, http.MethodGet, "/api/backend/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var env handlers.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusUnauthorized, env.Code)
}

func TestAdminSession(t *testing.T) {
	e := newServer(t)

	rec := serve(e, http.MethodPost, "/api/auth/login", `{"email":"admin@qq.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	dash := serve(e, http.MethodGet, "/api/backend/dashboard", "", cookies...)
	require.Equal(t, http.StatusOK, dash.Code, dash.Body.String())
	var env struct {
		Code int `json:"code"`
		Data struct {
			TotalOrders int64 `json:"total_orders"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(dash.Body.Bytes(), &env))
	assert.EqualValues(t, 3, env.Data.TotalOrders)

	dedup := serve(e, http.MethodDelete, "/api/backend/cami_clear_duplicates", "", cookies...)
	assert.Equal(t, http.StatusOK, dedup.Code)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/api/backend/class_read/0/10", "", cookies...).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/api/auth/me", "", cookies...).Code)
}

func TestStorefrontRoutes(t *testing.T) {
	e := newServer(t)
	for _, path := range []string{
		"/api/v1/get_categories",
		"/api/v1/get_products",
		"/api/v1/get_config",
		"/api/v1/search?q=vip",
	} {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, path, "").Code, path)
	}
	assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/api/v1/nope", "").Code)
}
