package dto

// ErrorResponse is the failure envelope for every endpoint.
// Fields carries field-level validation detail on 400s.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Clients   int    `json:"clients"`
}
