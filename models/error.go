package models

// MessageResponse is the body returned for plain acknowledgements and errors
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthCheckResponse returns the health check response duh
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
