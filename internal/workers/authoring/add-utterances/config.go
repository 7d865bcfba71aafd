// internal/workers/authoring/add-utterances/config.go
package addutterances

import (
	"luis-provisioner/internal/common/config"
	"luis-provisioner/internal/labeling"
)

type Config struct {
	Utterances []labeling.Utterance
	Mode       labeling.Mode
}

func LoadConfig(cfg *config.Config) *Config {
	utterances := make([]labeling.Utterance, 0, len(cfg.Utterances))
	for _, u := range cfg.Utterances {
		utterances = append(utterances, labeling.Utterance{
			Intent: u.Intent,
			Text:   u.Text,
			Labels: u.Labels,
		})
	}

	mode := labeling.Strict
	if cfg.Labels.Unresolved == config.UnresolvedLegacy {
		mode = labeling.Legacy
	}

	return &Config{Utterances: utterances, Mode: mode}
}
