// internal/workers/authoring/add-entities/models.go
package addentities

import "luis-provisioner/internal/common/luis"

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

type CreatedEntity struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type Output struct {
	Created []CreatedEntity `json:"created"`
}
