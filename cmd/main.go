package main

import (
	"context"
	"errors"
	"os"

	"duesync/internal/services"
	"duesync/internal/settings"
	"duesync/internal/shared"

	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	store := settings.NewStore(config.Settings.Path)
	doc, err := store.Load()
	if err != nil {
		logger.Warn("failed to load settings, starting empty", "error", err)
		doc = &settings.Document{}
	}

	canvasToken := doc.Settings.CanvasKey
	if canvasToken == "" {
		canvasToken = config.Credentials.Canvas.Token
	}
	clickupToken := doc.Settings.ClickUpKey
	if clickupToken == "" {
		clickupToken = config.Credentials.ClickUp.Token
	}

	canvasService := services.NewCanvasService(config.Credentials.Canvas.BaseURL, canvasToken, nil, policyFromConfig(config))
	clickupService := services.NewClickUpService(config.Credentials.ClickUp.BaseURL, clickupToken, nil, config.Credentials.ClickUp.RateLimit)
	if doc.Settings.ClickUp.UserID != "" {
		clickupService.SetUser(doc.Settings.ClickUp.UserID)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("failed to open database, course cache disabled", "error", err)
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		DB:      db,
		Store:   store,
		Canvas:  canvasService,
		ClickUp: clickupService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "duesync",
		Usage:    "Sync Canvas assignment deadlines into ClickUp tasks",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
