package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muliwe/go-fizzbuzz-classifier/internal/classifier"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/logger"
	"github.com/muliwe/go-fizzbuzz-classifier/internal/sequence"
)

// Config holds server configuration
type Config struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	EnableDebug   bool
	RangeLimit    int64 // Maximum span a single run request may cover
	LoggerConfig  logger.Config
	ClassifierCfg classifier.Config

	// TLS configuration
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  10 * time.Second,
		IdleTimeout:   120 * time.Second,
		EnableDebug:   true,
		RangeLimit:    1_000_000,
		LoggerConfig:  logger.DefaultConfig(),
		ClassifierCfg: classifier.DefaultConfig(),
		TLSEnabled:    false,
	}
}

// Server represents the HTTP server
type Server struct {
	cfg        Config
	httpServer *http.Server
	handler    *Handler
	logger     *logger.Logger
	log        *slog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Initialize audit logger
	l, err := logger.New(cfg.LoggerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize components
	clf := classifier.New(cfg.ClassifierCfg)
	driver := sequence.New(clf)
	handler := NewHandler(clf, driver, l, cfg.RangeLimit)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("/", handler.HandleRun)
	mux.HandleFunc("/classify", handler.HandleClassify)
	mux.HandleFunc("/health", handler.HandleHealth)
	if cfg.EnableDebug {
		mux.HandleFunc("/debug", handler.HandleDebug)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	if cfg.TLSEnabled {
		httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			NextProtos: []string{"h2", "http/1.1"}, // Enable HTTP/2
		}
	}

	return &Server{
		cfg:        cfg,
		httpServer: httpServer,
		handler:    handler,
		logger:     l,
		log:        slog.Default(),
	}, nil
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		protocol := "HTTP"
		if s.cfg.TLSEnabled {
			protocol = "HTTPS"
		}
		s.log.Info("FizzBuzz server starting",
			"addr", s.cfg.Addr,
			"protocol", protocol,
			"debug", s.cfg.EnableDebug,
			"log", s.logger.LogPath(),
		)

		var err error
		if s.cfg.TLSEnabled {
			s.log.Info("TLS enabled", "cert", s.cfg.TLSCertFile)
			err = s.httpServer.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	s.log.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.logger.Close(); err != nil {
		s.log.Warn("error closing logger", "err", err)
	}

	s.log.Info("Server stopped")
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	return s.logger.Close()
}
