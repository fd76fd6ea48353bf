package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/cache"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/events"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/handler"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/logger"
	middlWre "github.com/swarajjadhav12/piggybankai-online/internal/core/middleware"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/repository/postgres"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/usecase"
	"github.com/swarajjadhav12/piggybankai-online/pkg/config"
	"github.com/swarajjadhav12/piggybankai-online/pkg/postgresdb"
)

type Server struct {
	router        *mux.Router
	log           logger.Logger
	cfg           *config.Config
	httpServer    *http.Server
	walletHandler *handler.WalletHandler
	db            *postgresdb.Database
	redisClient   *redis.Client
	kafkaWriter   *kafkago.Writer
}

func NewServer(cfg *config.Config, log logger.Logger) (*Server, error) {
	db, err := postgresdb.NewPostgresDB(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	server := &Server{
		log:    log,
		cfg:    cfg,
		router: mux.NewRouter(),
		db:     db,
	}

	var walletCache usecase.WalletCache
	if cfg.Redis.Addr != "" {
		server.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		walletCache = cache.NewWalletCache(server.redisClient)
	}

	var publisher usecase.TransactionPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		server.kafkaWriter = events.NewKafkaWriter(cfg.Kafka)
		publisher = events.NewTransactionPublisher(server.kafkaWriter)
	}

	walletRepository := postgres.NewPostgresWalletRepo(db.DB, log)
	userRepository := postgres.NewPostgresUserRepo(db.DB, log)
	walletUsecase := usecase.NewWalletUsecase(walletRepository, userRepository, walletCache, publisher, cfg.Wallet, log)
	server.walletHandler = handler.NewWalletHandler(walletUsecase, log)

	server.router.Use(middlWre.RequestLogging(log))

	mw := middleware.New(middleware.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{}),
	})

	server.router.Use(func(next http.Handler) http.Handler {
		return std.Handler("", mw, next)
	})

	server.RegisterRoutes()

	return server, nil
}

func (s *Server) RegisterRoutes() {
	s.router.Use(middlWre.Recovery(s.log))

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(middlWre.Auth(s.cfg.Auth.JWTSecret, s.log))
	s.walletHandler.RegisterRoutes(api)

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
}

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      12 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	s.httpServer = srv

	return srv.ListenAndServe()
}

func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      9 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	s.httpServer = srv
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	var shutdownErr error

	go func() {
		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(ctx); err != nil {
				s.log.Error("failed to shutdown HTTP server", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			}
		}

		if s.kafkaWriter != nil {
			if err := s.kafkaWriter.Close(); err != nil {
				s.log.Error("failed to close kafka writer", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("kafka writer shutdown error: %w", err)
			}
		}

		if s.redisClient != nil {
			if err := s.redisClient.Close(); err != nil {
				s.log.Error("failed to close redis client", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("redis shutdown error: %w", err)
			}
		}

		if s.db != nil {
			if err := s.db.Close(); err != nil {
				s.log.Error("failed to close database connection", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("database shutdown error: %w", err)
			}
		}

		close(done)
	}()

	select {
	case <-done:
		return shutdownErr
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
