package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/shinyyama/kidtokid/internal/config"
	"github.com/shinyyama/kidtokid/internal/db"
	"github.com/shinyyama/kidtokid/internal/logging"
	"github.com/shinyyama/kidtokid/internal/server"
	"github.com/shinyyama/kidtokid/internal/storage"
	"github.com/shinyyama/kidtokid/internal/transport"
)

var (
	gitSHA    = "dev"
	buildTime = ""
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	gateway := transport.New(cfg.APIBaseURL, cfg.HTTPTimeout(), logger)
	uploader, err := storage.NewUploader(cfg.BlobProvider, cfg.UploadTimeout(), logger)
	if err != nil {
		log.Fatalf("uploader: %v", err)
	}

	srv := server.New(gateway, uploader, nil, server.Options{
		AllowedOriginSuffixes: cfg.AllowedOriginSuffix,
		UploadConcurrency:     cfg.UploadConcurrency,
		Logger:                logger,
		SHA:                   gitSHA,
		BuildTime:             buildTime,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)

	go func() {
		logger.Info("starting server", "addr", addr, "gateway", cfg.APIBaseURL)
		errCh <- srv.Start(addr)
	}()

	if cfg.JournalEnabled() {
		go func() {
			conn, err := db.Connect(cfg)
			if err != nil {
				logger.Error("db connect error", "err", err)
				return
			}
			if err := db.Migrate(conn); err != nil {
				logger.Error("auto migrate error", "err", err)
				return
			}
			if setter, ok := interface{}(srv).(interface{ SetDB(*gorm.DB) }); ok {
				setter.SetDB(conn)
			}
			logger.Info("publication journal ready")
		}()
	} else {
		logger.Info("publication journal disabled: DB_HOST not set")
	}

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
