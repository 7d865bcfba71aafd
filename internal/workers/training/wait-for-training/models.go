// internal/workers/training/wait-for-training/models.go
package waitfortraining

import "luis-provisioner/internal/common/luis"

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

type Output struct {
	Models      []luis.ModelTrainingInfo `json:"models"`
	Polls       int                      `json:"polls"`
	Publishable bool                     `json:"publishable"`
}
