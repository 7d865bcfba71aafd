// internal/workers/training/check-train-status/models.go
package checktrainstatus

import "luis-provisioner/internal/common/luis"

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

// Output carries the first model's status plus the full list for callers that need it.
type Output struct {
	Status string                   `json:"status"`
	Models []luis.ModelTrainingInfo `json:"models"`
}
