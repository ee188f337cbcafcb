package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type TCP struct {
	Host string
	Port int
}

type DB struct {
	Driver string
	Path   string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
}

type Config struct {
	TCP      TCP
	Root     string
	HTTPAddr string
	DB       DB
	History  struct {
		Enabled bool
	}
	Monitor struct {
		Enabled bool
	}
}

// Load reads the server configuration. An empty path keeps the defaults so
// the server can run from flags alone.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 57005)
	v.SetDefault("server.root", "data")
	v.SetDefault("server.http_addr", "")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "data/sfmp.db")
	v.SetDefault("db.host", "127.0.0.1")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "root")
	v.SetDefault("db.pass", "")
	v.SetDefault("db.name", "sfmp")
	v.SetDefault("history.enabled", true)
	v.SetDefault("monitor.enabled", false)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		TCP:      TCP{Host: v.GetString("server.host"), Port: v.GetInt("server.port")},
		Root:     v.GetString("server.root"),
		HTTPAddr: v.GetString("server.http_addr"),
		DB: DB{
			Driver: v.GetString("db.driver"),
			Path:   v.GetString("db.path"),
			Host:   v.GetString("db.host"),
			Port:   v.GetInt("db.port"),
			User:   v.GetString("db.user"),
			Pass:   v.GetString("db.pass"),
			Name:   v.GetString("db.name"),
		},
	}
	cfg.History.Enabled = v.GetBool("history.enabled")
	cfg.Monitor.Enabled = v.GetBool("monitor.enabled")
	return cfg, nil
}
