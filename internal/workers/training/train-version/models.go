// internal/workers/training/train-version/models.go
package trainversion

import "luis-provisioner/internal/common/luis"

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

type Output struct {
	StatusID int    `json:"statusId"`
	Status   string `json:"status"`
}
