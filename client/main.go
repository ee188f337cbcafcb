package main

import (
	"flag"
	"fmt"
	"os"

	"sfmp/client/internal/config"
	"sfmp/client/internal/connection"
	"sfmp/client/internal/logger"
	"sfmp/client/internal/shell"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "Path to configuration file (optional)")
		host    = flag.String("host", "", "Server host, overrides config")
		port    = flag.Int("port", 0, "Server port, overrides config")
	)
	flag.Parse()

	cfg := config.Init(*cfgPath)
	if *host != "" {
		cfg.ServerHost = *host
	}
	if *port != 0 {
		cfg.ServerPort = *port
	}

	if err := logger.Init(cfg.LogPath); err != nil {
		fmt.Println("Cannot open log file:", err)
		os.Exit(1)
	}

	fmt.Printf("Connecting to %s on port %d...\n", cfg.ServerHost, cfg.ServerPort)
	mgr := connection.New(cfg.ServerHost, cfg.ServerPort)
	if err := mgr.Connect(cfg.MaxRetries, cfg.RetryDelay); err != nil {
		fmt.Println("Error creating socket.")
		os.Exit(1)
	}
	defer mgr.Close()
	fmt.Printf("Successfully connected to %s on port %d\n", cfg.ServerHost, cfg.ServerPort)

	if err := shell.New(mgr, cfg).Run(); err != nil {
		logger.Errorf("shell stopped: %v", err)
	}
}
