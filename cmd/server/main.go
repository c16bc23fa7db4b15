package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fondos/internal/auth"
	authhandler "fondos/internal/auth/handler"
	"fondos/internal/catalog"
	cataloghandler "fondos/internal/catalog/handler"
	catalogstore "fondos/internal/catalog/store"
	"fondos/internal/client"
	clienthandler "fondos/internal/client/handler"
	clientstore "fondos/internal/client/store"
	"fondos/internal/journal"
	journalhandler "fondos/internal/journal/handler"
	journalstore "fondos/internal/journal/store"
	"fondos/internal/notification"
	"fondos/internal/platform/config"
	"fondos/internal/platform/httpserver"
	"fondos/internal/platform/logger"
	"fondos/internal/platform/middleware"
	"fondos/internal/platform/postgres"
	"fondos/internal/platform/redis"
	"fondos/internal/subscription"
	subscriptionhandler "fondos/internal/subscription/handler"
	subscriptionmetrics "fondos/internal/subscription/metrics"
	"fondos/pkg/platform/audit"
	"fondos/pkg/platform/httputil"
)

// main wires stores, services, and the router, then runs the server until a
// shutdown signal. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var (
		db  *sql.DB
		err error

		fundStore   catalogstore.Store
		clientStore clientstore.Store
		txStore     journalstore.Store
	)
	if cfg.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		fundStore = catalogstore.NewPostgres(db)
		clientStore = clientstore.NewPostgres(db)
		txStore = journalstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		fundStore = catalogstore.NewInMemory()
		clientStore = clientstore.NewInMemory()
		txStore = journalstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		fundStore = catalogstore.NewCached(fundStore, redisClient, cfg.FundCacheTTL, log)
		log.Info("fund catalog cache enabled")
	}

	var auditPublisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.AuditTopic, audit.WithKafkaLogger(log))
		if err != nil {
			log.Error("kafka audit publisher failed", "error", err)
			os.Exit(1)
		}
		defer kp.Close()
		auditPublisher = kp
		log.Info("kafka audit publisher enabled", "topic", cfg.AuditTopic)
	} else {
		auditPublisher = audit.NewMemoryPublisher()
	}

	if cfg.SeedFunds {
		seeded, err := catalogstore.Seed(ctx, fundStore, time.Now().UTC())
		if err != nil {
			log.Error("fund seeding failed", "error", err)
			os.Exit(1)
		}
		if seeded > 0 {
			log.Info("seeded starter funds", "count", seeded)
		}
	}

	var emailSender notification.EmailSender
	if cfg.SMTPAddr != "" {
		emailSender = notification.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		emailSender = notification.NewLogEmailSender(log)
	}
	notifier := notification.New(emailSender, notification.NewSimulatedSMSSender(log), txStore, log)

	catalogService := catalog.New(fundStore, log, catalog.WithAuditPublisher(auditPublisher))
	clientService := client.New(clientStore, catalogService, log)
	journalService := journal.New(txStore, log)

	engine := subscription.New(fundStore, clientStore, txStore, log,
		subscription.WithNotifier(notifier),
		subscription.WithAuditPublisher(auditPublisher),
		subscription.WithMetrics(subscriptionmetrics.New()),
	)

	tokens := auth.NewTokenIssuer(cfg.JWTSigningKey, cfg.TokenTTL)
	authService := auth.New(clientStore, tokens, cfg.InitialAmount, log,
		auth.WithWelcomeNotifier(notifier),
		auth.WithAuditPublisher(auditPublisher),
	)

	router := newRouter(log, tokens,
		authhandler.New(authService, log),
		cataloghandler.New(catalogService, log),
		clienthandler.New(clientService, log),
		journalhandler.New(journalService, log),
		subscriptionhandler.New(engine, log),
		healthHandler(db, redisClient),
	)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting fondos server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newRouter(
	log *slog.Logger,
	tokens *auth.TokenIssuer,
	authH *authhandler.Handler,
	catalogH *cataloghandler.Handler,
	clientH *clienthandler.Handler,
	journalH *journalhandler.Handler,
	subscriptionH *subscriptionhandler.Handler,
	health http.HandlerFunc,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.PropagateRequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		authH.Register(r)
		catalogH.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, log))
		clientH.Register(r)
		subscriptionH.Register(r)
		journalH.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(log))
			catalogH.RegisterAdmin(r)
			journalH.RegisterAdmin(r)
		})
	})

	return r
}

// healthHandler reports liveness plus the state of the optional backing
// services.
func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := map[string]string{}

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				deps["postgres"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				deps["postgres"] = "up"
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				deps["redis"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				deps["redis"] = "up"
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{
			"status":       overall,
			"dependencies": deps,
		})
	}
}
