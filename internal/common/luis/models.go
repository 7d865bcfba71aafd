package luis

import "time"

// Training status values reported by the authoring service.
const (
	StatusQueued     = "Queued"
	StatusInProgress = "InProgress"
	StatusUpToDate   = "UpToDate"
	StatusSuccess    = "Success"
	StatusFail       = "Fail"
)

type ApplicationCreateObject struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Culture          string `json:"culture"`
	InitialVersionID string `json:"initialVersionId,omitempty"`
}

type ModelCreateObject struct {
	Name string `json:"name"`
}

type EntityLabelObject struct {
	EntityName     string `json:"entityName"`
	StartCharIndex int    `json:"startCharIndex"`
	EndCharIndex   int    `json:"endCharIndex"`
}

type ExampleLabelObject struct {
	Text         string              `json:"text"`
	IntentName   string              `json:"intentName"`
	EntityLabels []EntityLabelObject `json:"entityLabels"`
}

type LabelExampleResponse struct {
	UtteranceText string `json:"UtteranceText"`
	ExampleID     int    `json:"ExampleId"`
}

type OperationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchLabelExample is one per-item outcome of a batch example submission.
type BatchLabelExample struct {
	Value    LabelExampleResponse `json:"value"`
	HasError bool                 `json:"hasError"`
	Error    *OperationError      `json:"error,omitempty"`
}

type EnqueueTrainingResponse struct {
	StatusID int    `json:"statusId"`
	Status   string `json:"status"`
}

type ModelTrainingDetails struct {
	StatusID         int        `json:"statusId"`
	Status           string     `json:"status"`
	ExampleCount     int        `json:"exampleCount"`
	TrainingDateTime *time.Time `json:"trainingDateTime,omitempty"`
	FailureReason    string     `json:"failureReason,omitempty"`
}

type ModelTrainingInfo struct {
	ModelID string               `json:"modelId"`
	Details ModelTrainingDetails `json:"details"`
}

type ApplicationPublishObject struct {
	VersionID string `json:"versionId"`
	IsStaging bool   `json:"isStaging"`
}

type ProductionOrStagingEndpointInfo struct {
	VersionID           string     `json:"versionId"`
	IsStaging           bool       `json:"isStaging"`
	EndpointURL         string     `json:"endpointUrl"`
	Region              string     `json:"region,omitempty"`
	AssignedEndpointKey string     `json:"assignedEndpointKey,omitempty"`
	EndpointRegion      string     `json:"endpointRegion,omitempty"`
	FailedRegions       string     `json:"failedRegions,omitempty"`
	PublishedDateTime   *time.Time `json:"publishedDateTime,omitempty"`
}

// IsTerminal reports whether a training status will not change without a new train request.
func IsTerminal(status string) bool {
	switch status {
	case StatusUpToDate, StatusSuccess, StatusFail:
		return true
	}
	return false
}

// IsPublishable reports whether every model finished training successfully.
// Publishing does not check this; callers that want the guarantee must.
func IsPublishable(statuses []ModelTrainingInfo) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s.Details.Status != StatusSuccess && s.Details.Status != StatusUpToDate {
			return false
		}
	}
	return true
}

// ApplicationInfo identifies the application version every step after creation works on.
type ApplicationInfo struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}
