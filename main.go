package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/openparty/charades/config"
	"github.com/openparty/charades/logger"
	"github.com/openparty/charades/persistence"
	"github.com/openparty/charades/server"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load config: %v", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	gameServer := server.NewGameServer(
		cfg.Server.HTTPAddress,
		cfg.Server.RPCAddress,
		cfg.Server.MonitorAddress,
		db,
	)

	go func() {
		if err := gameServer.Start(); err != nil {
			logger.Log.Fatalf("Game server exited: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	gameServer.Shutdown()
}

func openDatabase(cfg *config.Config) (persistence.Database, error) {
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "gorm":
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "postgres":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		logger.Log.Info("Using in-memory store, state will not survive a restart")
		return persistence.NewMemory(), nil
	}
}
