// internal/workers/publishing/publish-version/models.go
package publishversion

import (
	"time"

	"luis-provisioner/internal/common/luis"
)

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

type Output struct {
	EndpointURL string     `json:"endpointUrl"`
	VersionID   string     `json:"versionId"`
	IsStaging   bool       `json:"isStaging"`
	Region      string     `json:"region,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
