package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://sentiment-analysis-lstm-0uqd.onrender.com"

// Config holds application configuration
type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		Mode            string        `yaml:"mode"` // gin mode: debug, release or test
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	} `yaml:"server"`

	API struct {
		BaseURL       string        `yaml:"base_url"`
		Timeout       time.Duration `yaml:"timeout"`
		UploadTimeout time.Duration `yaml:"upload_timeout"`
	} `yaml:"api"`

	Database struct {
		Type string `yaml:"type"` // "memory", "sqlite" or "postgres"
		Path string `yaml:"path"` // SQLite path or PostgreSQL URL
	} `yaml:"database"`

	Session struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
		Secure bool          `yaml:"secure"`
	} `yaml:"session"`

	Monitor struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"monitor"`

	Batch struct {
		IdleTTL       time.Duration `yaml:"idle_ttl"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
	} `yaml:"batch"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// LoadEnv loads a .env file into the process environment. A missing file is
// not an error; the returned bool reports whether one was found.
func LoadEnv(path string) (bool, error) {
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load env file: %w", err)
	}
	return true, nil
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override both.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	config.API.BaseURL = os.ExpandEnv(config.API.BaseURL)
	config.Database.Path = os.ExpandEnv(config.Database.Path)
	config.Session.Secret = os.ExpandEnv(config.Session.Secret)

	config.applyEnvOverrides()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Server.MaxUploadBytes == 0 {
		c.Server.MaxUploadBytes = 10 << 20
	}

	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.UploadTimeout == 0 {
		c.API.UploadTimeout = 2 * time.Minute
	}

	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Path == "" && c.Database.Type == "sqlite" {
		c.Database.Path = "./data/sentiment-web.db"
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 365 * 24 * time.Hour
	}
	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = 15 * time.Second
	}
	if c.Batch.IdleTTL == 0 {
		c.Batch.IdleTTL = 30 * time.Minute
	}
	if c.Batch.SweepInterval == 0 {
		c.Batch.SweepInterval = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnvOverrides lets the environment win over the YAML file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SENTIMENT_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SENTIMENT_WEB_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SENTIMENT_WEB_SESSION_SECRET"); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv("SENTIMENT_WEB_DB_TYPE"); v != "" {
		c.Database.Type = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.Path = v
		if os.Getenv("SENTIMENT_WEB_DB_TYPE") == "" {
			c.Database.Type = "postgres"
		}
	}
	if v := os.Getenv("SENTIMENT_WEB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SENTIMENT_WEB_SECURE_COOKIES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Session.Secure = b
		}
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Database.Type == "postgres" && c.Database.Path == "" {
		return errors.New("database.path must hold a PostgreSQL URL")
	}
	if c.API.Timeout < 0 || c.API.UploadTimeout < 0 {
		return errors.New("api timeouts must be positive")
	}
	if c.Monitor.Interval < 0 {
		return errors.New("monitor.interval must be positive")
	}
	if c.Batch.IdleTTL < 0 || c.Batch.SweepInterval < 0 {
		return errors.New("batch durations must be positive")
	}
	if c.Server.MaxUploadBytes < 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	return nil
}
