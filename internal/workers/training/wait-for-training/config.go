// internal/workers/training/wait-for-training/config.go
package waitfortraining

import (
	"time"

	"luis-provisioner/internal/common/config"
)

type Config struct {
	PollInterval time.Duration
	MaxWait      time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		PollInterval: config.GetDuration(cfg.Training.PollInterval),
		MaxWait:      config.GetDuration(cfg.Training.MaxWait),
	}
}
