package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/auth"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/config"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/database"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/handler"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/jobs"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/middleware"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/redis"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/repository"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("APP_ENV") == "production"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	adminRepo := repository.NewAdminRepository(db.DB)
	studentRepo := repository.NewStudentRepository(db.DB)

	// Two independent codecs share the secret: the JWT one issues tokens at
	// login and guards the JSON API, the HMAC one verifies them again in
	// front of the pages. Either accepts what the other produced.
	jwtCodec := auth.NewJWTCodec(cfg.AuthSecret, cfg.SessionTTL())
	hmacCodec := auth.NewHMACCodec(cfg.AuthSecret, cfg.SessionTTL())

	authService := service.NewAuthService(adminRepo, jwtCodec)
	dashboardService := service.NewDashboardService(studentRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtCodec)
	pageGuard := middleware.NewPageGuard(hmacCodec)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient.Client, cfg.APIRateLimitPerMin)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, authMiddleware.Handler, cfg.SessionTTL(), isProduction)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	spaHandler := handler.NewSPAHandler(cfg.StaticDir)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(csrfMiddleware.Handler)

		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Use(rateLimitMiddleware.Handler)
			r.Get("/dashboard", dashboardHandler.Snapshot)
		})
	})

	r.NotFound(pageGuard.Handler(spaHandler).ServeHTTP)

	paymentJob := jobs.NewPaymentJob(studentRepo, config.PaymentJobInterval, cfg.PaymentGracePeriod())
	paymentJob.Start()
	defer paymentJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
