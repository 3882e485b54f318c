package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"docreader/config"
	"docreader/pkg/otel"
	"docreader/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "config.yaml", "configuration file")
	addressFlag := flag.String("address", "", "listen address")

	flag.Parse()

	ctx := context.Background()

	if err := otel.Setup(ctx); err != nil {
		return err
	}

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		return err
	}

	if *addressFlag != "" {
		cfg.Address = *addressFlag
	}

	handler, err := api.New(cfg)

	if err != nil {
		return err
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	handler.Attach(r)

	slog.Info("starting server", "address", cfg.Address)

	return http.ListenAndServe(cfg.Address, otelhttp.NewHandler(r, "server"))
}
