package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusResponse is returned by endpoints with nothing else to report
type StatusResponse struct {
	Status string `json:"status"`
}
