// internal/workers/authoring/add-entities/config.go
package addentities

import "luis-provisioner/internal/common/config"

type Config struct {
	Entities []string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{Entities: cfg.Entities}
}
