package http

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationError represents a request binding/validation failure detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"crypto"`
	Message string                 `json:"message,omitempty" example:"crypto is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
