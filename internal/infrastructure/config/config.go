package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Remote     RemoteConfig
	LocalStore LocalStoreConfig
	Log        LogConfig
	HTTP       HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// RemoteConfig holds the list-service connection settings. An empty
// BaseURL means no remote service is configured and the local store is
// used instead.
type RemoteConfig struct {
	BaseURL       string
	SatelliteList string
	SensorList    string
	Timeout       time.Duration
	PageSize      int
}

// LocalStoreConfig holds local key-value store settings
type LocalStoreConfig struct {
	Path       string
	QuotaBytes int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with SAT_ prefix (e.g., SAT_REMOTE_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Remote: RemoteConfig{
			BaseURL:       v.GetString("remote.base_url"),
			SatelliteList: v.GetString("remote.satellite_list"),
			SensorList:    v.GetString("remote.sensor_list"),
			Timeout:       v.GetDuration("remote.timeout"),
			PageSize:      v.GetInt("remote.page_size"),
		},
		LocalStore: LocalStoreConfig{
			Path:       v.GetString("localstore.path"),
			QuotaBytes: v.GetInt("localstore.quota_bytes"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sattrack")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.satellite_list", "Satellites")
	v.SetDefault("remote.sensor_list", "Sensors")
	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("remote.page_size", 5000)

	v.SetDefault("localstore.path", "sattrack.db")
	v.SetDefault("localstore.quota_bytes", 5*1024*1024)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
}
