// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Authoring     AuthoringConfig    `mapstructure:"authoring"`
	Application   ApplicationConfig  `mapstructure:"application"`
	Intents       []string           `mapstructure:"intents"`
	Entities      []string           `mapstructure:"entities"`
	Utterances    []UtteranceConfig  `mapstructure:"utterances"`
	Labels        LabelsConfig       `mapstructure:"labels"`
	Training      TrainingConfig     `mapstructure:"training"`
	Publish       PublishConfig      `mapstructure:"publish"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Metrics       MetricsConfig      `mapstructure:"metrics"`
	Tracing       TracingConfig      `mapstructure:"tracing"`
	State         StateConfig        `mapstructure:"state"`
	Ledger        LedgerConfig       `mapstructure:"ledger"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// AuthoringConfig points the client at a LUIS authoring resource.
type AuthoringConfig struct {
	Key      string `mapstructure:"key"`
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

// ApplicationConfig is the fixed metadata of the application to create.
type ApplicationConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Version     string `mapstructure:"version"`
	Culture     string `mapstructure:"culture"`
}

type UtteranceConfig struct {
	Intent string            `mapstructure:"intent"`
	Text   string            `mapstructure:"text"`
	Labels map[string]string `mapstructure:"labels"`
}

// LabelsConfig controls what happens when a label value is absent from its utterance.
type LabelsConfig struct {
	Unresolved string `mapstructure:"unresolved"` // "error" or "legacy"
}

type TrainingConfig struct {
	Wait         bool `mapstructure:"wait"`
	PollInterval int  `mapstructure:"poll_interval"` // milliseconds
	MaxWait      int  `mapstructure:"max_wait"`      // milliseconds
}

type PublishConfig struct {
	IsStaging bool `mapstructure:"is_staging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

type TracingConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// StateConfig configures where the created application id is remembered between runs.
type StateConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
	TTL   int         `mapstructure:"ttl"` // seconds, 0 keeps forever
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type LedgerConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Enabled reports whether a ledger database was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// NotificationConfig holds settings for the publish notification.
type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		Region   string `mapstructure:"region"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
