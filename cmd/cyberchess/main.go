package main

import (
	"context"
	"os"
	"time"

	"github.com/cyberchess/cyberchess/internal/api"
	"github.com/cyberchess/cyberchess/internal/config"
	"github.com/cyberchess/cyberchess/internal/constants"
	"github.com/cyberchess/cyberchess/internal/events"
	"github.com/cyberchess/cyberchess/internal/logging"
	"github.com/cyberchess/cyberchess/internal/service"
	"github.com/cyberchess/cyberchess/internal/storage"
	"github.com/cyberchess/cyberchess/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load the game configuration file (required). Path may be provided via
	// CYBERCHESS_CONFIG env var or defaults to ./cyberchess_config.json in
	// the current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid game configuration", err, logging.Fields{
			"config_path": configPath,
			"hint":        "provide a config file with 'game' settings plus 'resources', 'layers' and 'tactics' blocks for the attacker, defender and monitor roles",
		})
	}

	// Allow the DB path to be configured via CYBERCHESS_DB. Default to a
	// data/ directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = constants.DefaultDBPath
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db, 30*time.Minute)

	bus := events.NewBus()
	svc := service.NewService(repo, cfg.Catalog, bus, cfg.ActionTimeout, cfg.ReconnectWindow)
	replays := service.NewReplayService(repo, cfg.Catalog)
	handler := api.NewHandler(svc, replays, ws.NewHub(bus))

	// Background scanner: force-close rounds whose action window expired.
	go svc.RunTimeoutScanner(context.Background(), 1*time.Second)

	router := gin.Default()
	handler.RegisterRoutes(router)

	addr := cfg.ServerAddress
	if env := os.Getenv(constants.EnvListenAddr); env != "" {
		addr = env
	}
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
