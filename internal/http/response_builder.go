package http

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       APIResponse
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header sets a custom header.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Data marks the response successful and carries v as its payload.
func (b *ResponseBuilder) Data(v any) *ResponseBuilder {
	b.body = APIResponse{Success: true, Data: v}
	return b
}

// Error marks the response failed with message.
func (b *ResponseBuilder) Error(message string) *ResponseBuilder {
	b.body = APIResponse{Success: false, Error: message}
	return b
}

// Write sends the response to w.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

// ErrorResponse creates an error response with the given status and message.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewJSONResponse().Status(statusCode).Error(message)
}

// BadRequestError creates a 400 Bad Request response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 Not Found response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}
