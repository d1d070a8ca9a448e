package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"leadflow/pkg/config"
	"leadflow/pkg/dialog"
	"leadflow/pkg/logx"
	"leadflow/pkg/metrics"
	"leadflow/pkg/server"
	"leadflow/pkg/store"
	"leadflow/pkg/summarizer"
)

func main() {
	var configPath string
	var listenAddr string
	flag.StringVar(&configPath, "config", "", "Path to app config file")
	flag.StringVar(&listenAddr, "addr", "", "Listen address (overrides config)")
	flag.Parse()

	// Use CONFIG_PATH env var if flag not provided
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "config/leadflow.yaml"
	}

	cfg, err := config.LoadApp(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	logger := logx.NewLogger("main")

	st, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("database close failed: %v", err)
		}
	}()

	sum, err := summarizer.New(&cfg.Summarizer)
	if err != nil {
		log.Fatalf("Failed to create summarizer client: %v", err)
	}

	scripts := config.NewScriptLoader(cfg.ScriptDir)
	if _, err := scripts.Load(cfg.Industry); err != nil {
		log.Fatalf("Failed to load %q script: %v", cfg.Industry, err)
	}

	recorder := metrics.NewRecorder()
	driver := dialog.NewDriver(st, scripts, cfg.Industry, sum, recorder)
	srv := server.NewServer(driver, st, scripts, cfg.Industry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting lead qualification service (industry=%s, summarizer=%s/%s)",
		cfg.Industry, cfg.Summarizer.Provider, cfg.Summarizer.Model)

	if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	logger.Info("shutdown complete")
}
