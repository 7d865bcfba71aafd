// internal/workers/training/train-version/config.go
package trainversion

type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
