package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendModeREST     = "rest"
	BackendModePostgres = "postgres"

	RealtimeModeKafka    = "kafka"
	RealtimeModePostgres = "postgres"
	RealtimeModeOff      = "off"
)

type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Backend      BackendConfig      `yaml:"backend"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Realtime     RealtimeConfig     `yaml:"realtime"`
	Availability AvailabilityConfig `yaml:"availability"`
	Sessions     SessionsConfig     `yaml:"sessions"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Logs         LogsConfig         `yaml:"logs"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
}

// BackendConfig selects where slots come from and where bookings go.
type BackendConfig struct {
	Mode           string `yaml:"mode"`
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	AvailabilityTopic  string   `yaml:"availability_topic"`
	InteractionsTopic  string   `yaml:"interactions_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type RealtimeConfig struct {
	Mode    string `yaml:"mode"`
	Channel string `yaml:"channel"`
}

type AvailabilityConfig struct {
	WindowDays             int `yaml:"window_days"`
	RefreshIntervalMinutes int `yaml:"refresh_interval_minutes"`
}

func (a AvailabilityConfig) RefreshInterval() time.Duration {
	return time.Duration(a.RefreshIntervalMinutes) * time.Minute
}

type SessionsConfig struct {
	IdleTTLMinutes      int `yaml:"idle_ttl_minutes"`
	SweepIntervalMinute int `yaml:"sweep_interval_minutes"`
}

func (s SessionsConfig) IdleTTL() time.Duration {
	return time.Duration(s.IdleTTLMinutes) * time.Minute
}

func (s SessionsConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalMinute) * time.Minute
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

type LogsConfig struct {
	Level string `yaml:"level"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ShutdownSeconds == 0 {
		c.HTTP.ShutdownSeconds = 5
	}
	if c.Backend.Mode == "" {
		c.Backend.Mode = BackendModeREST
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Realtime.Mode == "" {
		c.Realtime.Mode = RealtimeModeOff
	}
	if c.Realtime.Channel == "" {
		c.Realtime.Channel = "availability_changes"
	}
	if c.Kafka.AvailabilityTopic == "" {
		c.Kafka.AvailabilityTopic = "availability_changes"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "datechecker"
	}
	if c.Availability.WindowDays == 0 {
		c.Availability.WindowDays = 180
	}
	if c.Availability.RefreshIntervalMinutes == 0 {
		c.Availability.RefreshIntervalMinutes = 5
	}
	if c.Sessions.IdleTTLMinutes == 0 {
		c.Sessions.IdleTTLMinutes = 60
	}
	if c.Sessions.SweepIntervalMinute == 0 {
		c.Sessions.SweepIntervalMinute = 5
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "datechecker"
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
}

// applyEnv lets secrets stay out of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("BACKEND_API_KEY"); v != "" {
		c.Backend.APIKey = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) validate() error {
	switch c.Backend.Mode {
	case BackendModeREST:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("invalid config: backend.base_url is required in %q mode", BackendModeREST)
		}
	case BackendModePostgres:
	default:
		return fmt.Errorf("invalid config: unknown backend.mode %q", c.Backend.Mode)
	}

	switch c.Realtime.Mode {
	case RealtimeModeKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("invalid config: kafka.brokers is required in %q realtime mode", RealtimeModeKafka)
		}
	case RealtimeModePostgres, RealtimeModeOff:
	default:
		return fmt.Errorf("invalid config: unknown realtime.mode %q", c.Realtime.Mode)
	}
	return nil
}

// NeedsDatabase reports whether any component talks to Postgres directly.
func (c *Config) NeedsDatabase() bool {
	return c.Backend.Mode == BackendModePostgres || c.Realtime.Mode == RealtimeModePostgres
}
