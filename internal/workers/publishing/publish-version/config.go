// internal/workers/publishing/publish-version/config.go
package publishversion

import "luis-provisioner/internal/common/config"

type Config struct {
	IsStaging bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{IsStaging: cfg.Publish.IsStaging}
}
