package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"roomdesk/internal/adapters/auth"
	server "roomdesk/internal/adapters/http_server"
	"roomdesk/internal/adapters/mailer"
	"roomdesk/internal/adapters/observability"
	redisad "roomdesk/internal/adapters/redis"
	"roomdesk/internal/app"
	"roomdesk/internal/shared"
	mysqlrepo "roomdesk/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	notifier := mailer.New(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.MailRPS)

	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	lifecycle := app.NewLifecycleService(repo, repo, notifier)
	availability := app.NewAvailabilityService(repo)
	catalog := app.NewCatalogService(repo, cache)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:            q,
		Lifecycle:    lifecycle,
		Availability: availability,
		Catalog:      catalog,
		Bookings:     repo,
		Verifier:     auth.NewStaticVerifier(cfg.AdminToken),
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
