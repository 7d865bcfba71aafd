// internal/workers/authoring/add-utterances/models.go
package addutterances

import "luis-provisioner/internal/common/luis"

type Input struct {
	App luis.ApplicationInfo `json:"app"`
}

// Outcome is the result for the utterance at the same position in the batch.
type Outcome struct {
	Text      string `json:"text"`
	ExampleID int    `json:"exampleId"`
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

type Output struct {
	Outcomes  []Outcome `json:"outcomes"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}
