package initialize

import (
	"fmt"
	"net/http"
	"os"

	"gorm.io/gorm"

	"sfmp/server/app/controllers"
	"sfmp/server/app/db"
	"sfmp/server/app/metrics"
	"sfmp/server/app/middleware"
	"sfmp/server/app/models"
	"sfmp/server/app/monitor"
	"sfmp/server/app/repo"
	"sfmp/server/app/services"
	"sfmp/server/app/storage"
	"sfmp/server/config"
	"sfmp/server/global"
	"sfmp/server/router"
)

type App struct {
	Cfg     config.Config
	DB      *gorm.DB
	Root    storage.Root
	History *services.HistoryService
	Metrics *metrics.Metrics
	Monitor *monitor.Watcher
	Router  http.Handler
}

// Build wires the server from a configuration file. An empty path uses
// the built-in defaults.
func Build(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return BuildConfig(cfg)
}

// BuildConfig wires the server from an already loaded configuration:
// served root, history database, metrics, optional root monitor and the
// admin router. Servers are started by the caller.
func BuildConfig(cfg *config.Config) (*App, error) {
	global.Config = *cfg

	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create root: %w", err)
	}
	root, err := storage.NewRoot(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}

	m := metrics.New()

	var gdb *gorm.DB
	if cfg.History.Enabled || cfg.Monitor.Enabled {
		gdb, err = db.Connect(db.Config{
			Driver:   cfg.DB.Driver,
			Path:     cfg.DB.Path,
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Pass,
			DBName:   cfg.DB.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		global.Mdb = gdb

		if err := gdb.AutoMigrate(&models.TransferRecord{}, &models.WatchedPath{}); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	var history *services.HistoryService
	if cfg.History.Enabled {
		history = services.NewHistoryService(repo.NewTransferRepository(gdb))
	}

	var watcher *monitor.Watcher
	var paths *repo.WatchedPathRepository
	if cfg.Monitor.Enabled {
		paths = repo.NewWatchedPathRepository(gdb)
		watcher, err = monitor.New(root.Base(), paths, global.Logger)
		if err != nil {
			return nil, fmt.Errorf("monitor: %w", err)
		}
	}

	adminCtrl := controllers.NewAdminController(root, history, paths)
	h := router.NewRouter(adminCtrl, m)
	h = middleware.Logging(h)

	return &App{Cfg: *cfg, DB: gdb, Root: root, History: history, Metrics: m, Monitor: watcher, Router: h}, nil
}
