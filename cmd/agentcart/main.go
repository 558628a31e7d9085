package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/agentcart/agentcart/internal/config"
	"github.com/agentcart/agentcart/internal/logging"
	"github.com/agentcart/agentcart/internal/server"
	"github.com/agentcart/agentcart/internal/svc"
)

func main() {
	configPath := flag.String("config", "etc/agentcart.yaml", "path to config file")
	flag.Parse()

	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	c, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(c.Database.SQLitePath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	svcCtx, err := svc.NewServiceContext(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize services: %v\n", err)
		os.Exit(1)
	}
	defer svcCtx.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, svcCtx); err != nil {
		logging.Errorf("Server exited with error: %v", err)
		os.Exit(1)
	}
}
