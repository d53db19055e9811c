package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Store       StoreConfig
	Tracker     TrackerConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxConn       int
	EnableMetrics bool
}

type StoreConfig struct {
	Path    string
	Bucket  string
	Timeout time.Duration
}

type TrackerConfig struct {
	HeartbeatInterval time.Duration
	DateCheckInterval time.Duration
	// Timezone names the IANA zone calendar days are computed in; empty means local time.
	Timezone        string
	Location        *time.Location
	StreakBonusRate float64
	UnlockQueueSize int
	ProfileName     string
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults suited to a single-user process on localhost.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "focusflow"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "127.0.0.1"),
			Port:          getString("SERVER_PORT", "8787"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:       getInt("SERVER_MAX_CONN", 0),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", true),
		},
		Store: StoreConfig{
			Path:    getString("STORE_PATH", "./data/focusflow.db"),
			Bucket:  getString("STORE_BUCKET", "focusflow"),
			Timeout: getDuration("STORE_TIMEOUT", time.Second),
		},
		Tracker: TrackerConfig{
			HeartbeatInterval: getDuration("HEARTBEAT_INTERVAL", time.Second),
			DateCheckInterval: getDuration("DATE_CHECK_INTERVAL", 60*time.Second),
			Timezone:          os.Getenv("DAY_TIMEZONE"),
			StreakBonusRate:   getFloat("STREAK_BONUS_RATE", 1.0),
			UnlockQueueSize:   getInt("UNLOCK_QUEUE_SIZE", 8),
			ProfileName:       getString("PROFILE_DEFAULT_NAME", "Explorer"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	loc, err := loadLocation(cfg.Tracker.Timezone)
	if err != nil {
		return nil, err
	}
	cfg.Tracker.Location = loc

	if cfg.Tracker.HeartbeatInterval < time.Second {
		return nil, fmt.Errorf("HEARTBEAT_INTERVAL must be at least 1s, got %s", cfg.Tracker.HeartbeatInterval)
	}
	if cfg.Tracker.DateCheckInterval < time.Second {
		return nil, fmt.Errorf("DATE_CHECK_INTERVAL must be at least 1s, got %s", cfg.Tracker.DateCheckInterval)
	}
	if cfg.Tracker.StreakBonusRate < 0 {
		return nil, fmt.Errorf("STREAK_BONUS_RATE must not be negative, got %v", cfg.Tracker.StreakBonusRate)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("DAY_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
