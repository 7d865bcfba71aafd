// internal/workers/authoring/create-application/models.go
package createapplication

import "luis-provisioner/internal/common/luis"

type Output struct {
	App  luis.ApplicationInfo `json:"app"`
	Name string               `json:"name"`
}
