package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/kamishop/internal/cache"
	"github.com/Skotchmaster/kamishop/internal/config"
	"github.com/Skotchmaster/kamishop/internal/db"
	"github.com/Skotchmaster/kamishop/internal/es"
	"github.com/Skotchmaster/kamishop/internal/handlers"
	"github.com/Skotchmaster/kamishop/internal/jobs"
	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/mailer"
	authmw "github.com/Skotchmaster/kamishop/internal/middleware/auth"
	"github.com/Skotchmaster/kamishop/internal/middleware/csrf"
	"github.com/Skotchmaster/kamishop/internal/middleware/requestlog"
	"github.com/Skotchmaster/kamishop/internal/mykafka"
	"github.com/Skotchmaster/kamishop/internal/repo"
	"github.com/Skotchmaster/kamishop/internal/seed"
	"github.com/Skotchmaster/kamishop/internal/service"
	"github.com/Skotchmaster/kamishop/internal/storage"
	"github.com/Skotchmaster/kamishop/internal/tokens"
	"github.com/Skotchmaster/kamishop/internal/transport"
	httpserver "github.com/Skotchmaster/kamishop/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "").Fatalw("config_load_failed", "error", err)
	}
	config.MustNonEmpty(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmpty(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	log := logging.New(cfg.LogLevel, cfg.LogFile).With("service", cfg.ServiceName)
	defer func() { _ = log.Sync() }()
	ctx := logging.IntoContext(context.Background(), log)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("db_open_failed", "error", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalw("db_migrate_failed", "error", err)
	}
	r := &repo.GormRepo{DB: gdb}
	loc, err := cfg.Location()
	if err != nil {
		log.Warnw("timezone_invalid", "timezone", cfg.Timezone, "fallback", loc.String(), "error", err)
	}

	producer := newPublisher(log, cfg.KafkaBrokers)

	var indexer service.ProductIndexer
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, es.Options{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Warnw("es_unavailable", "error", err)
		} else {
			indexer = &es.Index{Client: client, Name: cfg.ESIndex}
		}
	}

	dashboardSvc := &service.DashboardService{Repo: r, Location: loc}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Warnw("redis_unavailable", "error", err)
		} else {
			defer func() { _ = client.Close() }()
			dashboardSvc.Cache = &cache.JSON{Client: client, TTL: cfg.DashboardCacheTTL}
			log.Infow("dashboard_cache_enabled", "ttl", cfg.DashboardCacheTTL)
		}
	}

	images, err := storage.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalw("upload_dir_failed", "error", err)
	}

	authSvc := &service.AuthService{
		Repo:     r,
		Tokens:   tokens.Issuer{AccessSecret: []byte(cfg.JWTAccessSecret), RefreshSecret: []byte(cfg.JWTRefreshSecret)},
		Producer: producer,
	}
	cardSvc := &service.CardService{Repo: r, Producer: producer}
	orderSvc := &service.OrderService{Repo: r, Producer: producer}
	catalogSvc := &service.CatalogService{Repo: r, Indexer: indexer, Producer: producer}
	settingsSvc := &service.SettingsService{Repo: r, Mailer: mailer.SMTP{}}

	if cfg.SeedExampleData {
		if err := seed.Example(ctx, gdb, time.Now().UTC()); err != nil {
			log.Fatalw("seed_failed", "error", err)
		}
	}
	if cfg.AdminEmail != "" {
		admin := transport.CredentialsRequest{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
		if err := authSvc.EnsureAdmin(ctx, admin); err != nil {
			log.Fatalw("admin_seed_failed", "error", err)
		}
	}

	scheduler, err := jobs.New(log, loc,
		jobs.Job{Name: "dedup_cards", Spec: cfg.DedupCron, Run: cardSvc.DeduplicateCards},
		jobs.Job{Name: "purge_pending_orders", Spec: cfg.PurgePendingCron, Run: orderSvc.DeletePendingOrders},
	)
	if err != nil {
		log.Fatalw("jobs_failed", "error", err)
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		requestlog.Middleware(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-CSRF-Token"},
		}),
	)

	guard := &authmw.Guard{Auth: authSvc, SecureCookie: cfg.SecureCookies}
	deps := httpserver.Deps{
		DB:                gdb,
		Guard:             guard,
		AuthHandler:       &handlers.AuthHandler{Svc: authSvc, SecureCookie: cfg.SecureCookies},
		DashboardHandler:  &handlers.DashboardHandler{Svc: dashboardSvc},
		CatalogHandler:    &handlers.CatalogHandler{Svc: catalogSvc},
		CardHandler:       &handlers.CardHandler{Svc: cardSvc},
		OrderHandler:      &handlers.OrderHandler{Svc: orderSvc, Location: loc},
		UserHandler:       &handlers.UserHandler{Svc: &service.UserService{Repo: r}},
		SettingsHandler:   &handlers.SettingsHandler{Svc: settingsSvc},
		ImageHandler:      &handlers.ImageHandler{Store: images},
		StorefrontHandler: &handlers.StorefrontHandler{Catalog: catalogSvc, Orders: orderSvc, Settings: settingsSvc},
	}
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.SecureCookies
		csrfCfg.TrustedOrigins = cfg.CORSOrigins
		deps.AdminMiddleware = append(deps.AdminMiddleware, csrf.Middleware(csrfCfg))
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		log.Infow("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting_down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("http_shutdown_failed", "error", err)
		}
		scheduler.Stop(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorw("http_server_failed", "error", err)
	}
	if err := producer.Close(); err != nil {
		log.Errorw("kafka_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		log.Errorw("db_close_failed", "error", err)
	}
	log.Infow("shutdown_complete")
}

// newPublisher falls back to a no-op publisher when no broker is configured.
func newPublisher(log *zap.SugaredLogger, brokers []string) mykafka.Publisher {
	var addrs []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		log.Infow("kafka_disabled")
		return mykafka.Nop{}
	}
	p, err := mykafka.NewProducer(addrs, mykafka.DefaultTopics)
	if err != nil {
		log.Warnw("kafka_unavailable", "error", err)
		return mykafka.Nop{}
	}
	log.Infow("kafka_enabled", "brokers", addrs)
	return p
}
