package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"sfmp/network"
	"sfmp/server/app/session"
	"sfmp/server/app/storage"
	"sfmp/server/config"
	"sfmp/server/global"
	"sfmp/server/initialize"
	"sfmp/server/server"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "Path to configuration file (optional)")
		host     = flag.String("host", "", "Bind host, overrides config")
		port     = flag.Int("port", 0, "Bind port, overrides config")
		rootDir  = flag.String("root", "", "Served root directory, overrides config")
		httpAddr = flag.String("http-addr", "", "Admin HTTP listen address, overrides config")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("load config failed")
	}
	if *host != "" {
		cfg.TCP.Host = *host
	}
	if *port != 0 {
		cfg.TCP.Port = *port
	}
	if *rootDir != "" {
		cfg.Root = *rootDir
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	app, err := initialize.BuildConfig(cfg)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("server init failed")
	}
	if free, err := storage.DiskFree(app.Root.Base()); err == nil {
		global.Logger.Info().Str("root", app.Root.Base()).Uint64("free_bytes", free).Msg("serving root")
	}

	handle := func(conn *network.Conn) {
		session.New(conn, app.Root, app.History, app.Metrics, global.Logger).Run()
	}
	if err := server.StartTCPServer(cfg.TCP.Host, cfg.TCP.Port, handle); err != nil {
		global.Logger.Fatal().Err(err).Msg("start transfer server failed")
	}
	if cfg.HTTPAddr != "" {
		_ = server.StartHTTPServer(cfg.HTTPAddr, app.Router)
	}
	if app.Monitor != nil {
		app.Monitor.Start()
		defer app.Monitor.Close()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	global.Logger.Info().Msg("Shutdown signal received, exiting...")
}
