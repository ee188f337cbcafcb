package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	ServerHost string
	ServerPort int
	LogPath    string
	MaxRetries int
	RetryDelay time.Duration
}

var cfg AppConfig

// Init loads the client configuration. An empty path falls back to the
// conventional config/config.yaml, which may be absent.
func Init(path string) AppConfig {
	v := viper.New()
	if path == "" {
		path = "config/config.yaml"
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// defaults
	v.SetDefault("client.server.host", "127.0.0.1")
	v.SetDefault("client.server.port", 57005)
	v.SetDefault("client.log_path", "")
	v.SetDefault("client.max_retries", 5)
	v.SetDefault("client.retry_delay", "1s")
	_ = v.ReadInConfig()

	cfg = AppConfig{
		ServerHost: v.GetString("client.server.host"),
		ServerPort: v.GetInt("client.server.port"),
		LogPath:    v.GetString("client.log_path"),
		MaxRetries: v.GetInt("client.max_retries"),
		RetryDelay: v.GetDuration("client.retry_delay"),
	}
	return cfg
}

func Get() AppConfig { return cfg }
