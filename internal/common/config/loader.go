// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "luis-provisioner/internal/common/errors"
)

const (
	UnresolvedError  = "error"
	UnresolvedLegacy = "legacy"
)

// Load reads configs/config.yaml (plus config.<APP_ENVIRONMENT>.yaml) and the environment.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	bindEnv(v)

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

func finish(v *viper.Viper) (*Config, error) {
	// bools cannot be defaulted after unmarshal
	v.SetDefault("publish.is_staging", true)
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}
	if err := resolveLabelEntities(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values. An unset
// variable expands to "" so optional sections stay disabled.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills credentials from well-known variables when the file left them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Authoring.Key == "" {
		if val := os.Getenv("LUIS_AUTHORING_KEY"); val != "" {
			cfg.Authoring.Key = val
		}
	}
	if cfg.Authoring.Endpoint == "" {
		if val := os.Getenv("LUIS_AUTHORING_ENDPOINT"); val != "" {
			cfg.Authoring.Endpoint = val
		}
	}
	if cfg.Ledger.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Ledger.Postgres.User = val
		}
	}
	if cfg.Ledger.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Ledger.Postgres.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "luis-provisioner"
	}
	if cfg.Authoring.Timeout == 0 {
		cfg.Authoring.Timeout = 30000
	}

	if cfg.Application.Version == "" {
		cfg.Application.Version = "0.1"
	}
	if cfg.Application.Culture == "" {
		cfg.Application.Culture = "en-us"
	}
	if len(cfg.Entities) == 0 {
		cfg.Entities = []string{"facet"}
	}

	if cfg.Labels.Unresolved == "" {
		cfg.Labels.Unresolved = UnresolvedError
	}

	if cfg.Training.PollInterval == 0 {
		cfg.Training.PollInterval = 2000
	}
	if cfg.Training.MaxWait == 0 {
		cfg.Training.MaxWait = 300000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = cfg.App.Name
	}

	if cfg.Ledger.Postgres.Enabled() {
		if cfg.Ledger.Postgres.Port == 0 {
			cfg.Ledger.Postgres.Port = 5432
		}
		if cfg.Ledger.Postgres.MaxConnections == 0 {
			cfg.Ledger.Postgres.MaxConnections = 5
		}
		if cfg.Ledger.Postgres.MaxIdle == 0 {
			cfg.Ledger.Postgres.MaxIdle = 2
		}
		if cfg.Ledger.Postgres.SSLMode == "" {
			cfg.Ledger.Postgres.SSLMode = "disable"
		}
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Authoring.Key == "" {
		return fmt.Errorf("authoring.key is required")
	}
	if cfg.Authoring.Endpoint == "" {
		return fmt.Errorf("authoring.endpoint is required")
	}
	if !strings.HasPrefix(cfg.Authoring.Endpoint, "http://") && !strings.HasPrefix(cfg.Authoring.Endpoint, "https://") {
		return fmt.Errorf("authoring.endpoint must be an http(s) URL")
	}

	if cfg.Training.PollInterval <= 0 {
		return fmt.Errorf("training.poll_interval must be positive, got %d", cfg.Training.PollInterval)
	}
	if cfg.Training.MaxWait <= 0 {
		return fmt.Errorf("training.max_wait must be positive, got %d", cfg.Training.MaxWait)
	}

	switch cfg.Labels.Unresolved {
	case UnresolvedError, UnresolvedLegacy:
	default:
		return fmt.Errorf("labels.unresolved must be %q or %q", UnresolvedError, UnresolvedLegacy)
	}

	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}

	return nil
}

// resolveLabelEntities restores the declared spelling of label keys, which
// viper lowercases while reading maps.
func resolveLabelEntities(cfg *Config) error {
	for i, u := range cfg.Utterances {
		if len(u.Labels) == 0 {
			continue
		}
		labels := make(map[string]string, len(u.Labels))
		for key, value := range u.Labels {
			entity, ok := declaredEntity(cfg.Entities, key)
			if !ok {
				return fmt.Errorf("utterances[%d]: label %q matches no entry in entities %v", i, key, cfg.Entities)
			}
			labels[entity] = value
		}
		cfg.Utterances[i].Labels = labels
	}
	return nil
}

func declaredEntity(entities []string, key string) (string, bool) {
	for _, e := range entities {
		if strings.EqualFold(e, key) {
			return e, true
		}
	}
	return "", false
}
