package models

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Code  int    `json:"code"`
	Raw   string `json:"raw,omitempty"`
}

type StatusResponse struct {
	Message          string `json:"message"`
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}
