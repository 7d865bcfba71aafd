// internal/workers/training/check-train-status/config.go
package checktrainstatus

type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
