package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldScope      = "scope"
	FieldEntity     = "entity"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldRequestID  = "request_id"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
