// internal/workers/authoring/create-application/config.go
package createapplication

import "luis-provisioner/internal/common/config"

type Config struct {
	Name        string
	Description string
	Version     string
	Culture     string
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Name:        cfg.Application.Name,
		Description: cfg.Application.Description,
		Version:     cfg.Application.Version,
		Culture:     cfg.Application.Culture,
	}
}
