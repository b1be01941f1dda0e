package http

// APIResponse is the envelope every endpoint writes. The transport
// status is always 200; Status carries the logical result so browser
// clients can read error payloads without CORS preflight surprises.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError is one failed request-validation rule.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_ONEOF"`
	Field   string                 `json:"field,omitempty" example:"mode"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
