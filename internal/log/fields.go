package log

import "contas/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldEntryID     = "entry_id"
	FieldEntryType   = "entry_type"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldPaid        = "paid"
	FieldCount       = "count"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentViewModel = "viewmodel"
	ComponentConfig    = "config"
	ComponentCLI       = "cli"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpRemove   = "remove"
	OpList     = "list"
	OpValidate = "validate"
	OpSeed     = "seed"
	OpRender   = "render"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// Fields provides a builder pattern for structured log fields
type Fields map[string]any

// NewFields creates a new Fields instance
func NewFields() Fields {
	return make(Fields)
}

// WithError adds error field
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithEntry adds the identifying fields of an entry
func (f Fields) WithEntry(e core.Entry) Fields {
	f[FieldEntryID] = e.ID
	f[FieldEntryType] = e.Type.String()
	f[FieldDescription] = e.Description
	f[FieldAmount] = e.Amount.String()
	f[FieldPaid] = e.Paid
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f Fields) WithHTTPRequest(method, path, userAgent, clientIP string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	f[FieldClientIP] = clientIP
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts Fields to a slice for slog
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
