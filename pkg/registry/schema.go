// pkg/registry/schema.go
package registry

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	TaskType    string   `json:"taskType"`
	Endpoint    string   `json:"endpoint"`
	Optional    bool     `json:"optional"`
	ErrorCodes  []string `json:"errorCodes"`
	Tags        []string `json:"tags"`
}
