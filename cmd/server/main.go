package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/muliwe/go-fizzbuzz-classifier/internal/server"
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	cfg := server.DefaultConfig()

	// Allow port override from environment
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	// Enable debug endpoint in development
	if os.Getenv("DEBUG") == "true" {
		cfg.EnableDebug = true
	}

	// Tee the JSONL audit log to stdout
	if os.Getenv("LOG_STDOUT") == "true" {
		cfg.LoggerConfig.Stdout = true
	}

	// TLS configuration from environment
	tlsCert := os.Getenv("TLS_CERT")
	tlsKey := os.Getenv("TLS_KEY")
	if tlsCert != "" && tlsKey != "" {
		cfg.TLSEnabled = true
		cfg.TLSCertFile = tlsCert
		cfg.TLSKeyFile = tlsKey
	}

	srv, err := server.New(cfg)
	if err != nil {
		slog.Error("failed to create server", "err", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
