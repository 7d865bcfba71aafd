// internal/workers/authoring/add-intents/config.go
package addintents

import "luis-provisioner/internal/common/config"

type Config struct {
	Intents []string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Intents: cfg.Intents}
}
