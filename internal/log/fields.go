package log

// Attribute keys shared by every component.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldCollection  = "collection"
	FieldDocumentID  = "document_id"
	FieldProjectKey  = "project_key"
	FieldAccountID   = "account_id"
	FieldCard        = "card"
	FieldCategory    = "category"
	FieldSession     = "session"
	FieldCount       = "count"
	FieldSheetsRange = "sheets_range"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentDashboard = "dashboard"
	ComponentEmployee  = "employee"
	ComponentProject   = "project"
	ComponentMonitor   = "monitor"
	ComponentWorker    = "worker"
	ComponentSecurity  = "security"
	ComponentTrace     = "trace"
	ComponentReport    = "report"
)

const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpFetch     = "fetch"
	OpSubscribe = "subscribe"
	OpEvict     = "evict"
	OpExport    = "export"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// Error categories attached to rejected requests under FieldErrorType.
const (
	ErrorTypeValidation  = "validation_error"
	ErrorTypeBadRequest  = "bad_request"
	ErrorTypeNotFound    = "not_found_error"
	ErrorTypeRateLimited = "rate_limited"
	ErrorTypeUpstream    = "upstream_error"
	ErrorTypeUnavailable = "unavailable"
	ErrorTypeTimeout     = "timeout_error"
	ErrorTypeInternal    = "internal_error"
)
