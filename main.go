package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"user-registry/confs"
	"user-registry/db"
	"user-registry/logger"
	"user-registry/server"

	"github.com/gin-gonic/gin"
)

func main() {
	// load config
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logs, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error configuring logger: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// connect to database Postgres and create the users table
	database, err := db.Connect(ctx, cfg.DB, logs)
	if err != nil {
		logs.WithError(err).Fatal("failed to connect to database")
	}

	srv, err := server.NewServer(cfg, database, logs)
	if err != nil {
		logs.WithError(err).Fatal("failed to build server")
	}

	if err := srv.Start(ctx); err != nil {
		logs.WithError(err).Fatal("server stopped")
	}
}
