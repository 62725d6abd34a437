package models

// HealthCheckResponse returns the health check response duh
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}

// StatusResponse is the generic {status, message} body used across the api
type StatusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// EmergencyContactsRequest is the body accepted by the emergency contacts endpoint
type EmergencyContactsRequest struct {
	UniqueKey string `json:"uniqueKey"`
}

// EmergencyContactsResponse returns the phone numbers of a rider's emergency contacts
type EmergencyContactsResponse struct {
	PhoneNumbers []string `json:"phoneNumbers"`
}
