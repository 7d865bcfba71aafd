// internal/workers/authoring/add-intents/models.go
package addintents

import "luis-provisioner/internal/common/luis"

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

type CreatedIntent struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type Output struct {
	Created []CreatedIntent `json:"created"`
}
