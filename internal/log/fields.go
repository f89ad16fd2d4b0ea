package log

// Field names shared by every package.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldUnit       = "store_unit"
	FieldCollection = "collection"
	FieldKey        = "key"
	FieldRecordID   = "record_id"
	FieldCount      = "count"
	FieldTab        = "sheet_tab"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentWorkspace = "workspace"
	ComponentAccess    = "access"
	ComponentAMQP      = "amqp"
	ComponentStorage   = "storage"
	ComponentWorker    = "worker"
	ComponentCache     = "cache"
	ComponentSecurity  = "security"
	ComponentRateLimit = "rate_limit"
)

const (
	OpCreate   = "create"
	OpDelete   = "delete"
	OpSave     = "save"
	OpToggle   = "toggle"
	OpSwitch   = "switch_unit"
	OpValidate = "validate"
)

const (
	ErrorTypeValidation = "validation_error"
	ErrorTypeDatabase   = "database_error"
	ErrorTypeAuth       = "auth_error"
	ErrorTypeInternal   = "internal_error"
)

// LogFields collects attributes for one record. Empty unit and nil error
// are skipped.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(t string) LogFields {
	f[FieldErrorType] = t
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithUnit(unit string) LogFields {
	if unit != "" {
		f[FieldUnit] = unit
	}
	return f
}

// WithCollection sets the collection and, when known, its storage key.
func (f LogFields) WithCollection(collection, key string) LogFields {
	f[FieldCollection] = collection
	if key != "" {
		f[FieldKey] = key
	}
	return f
}

func (f LogFields) WithRecord(id string) LogFields {
	f[FieldRecordID] = id
	return f
}

// WithHTTPRequest sets method and path, and the query when present.
func (f LogFields) WithHTTPRequest(method, path, query string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	return f
}

// ToSlice flattens the fields into slog key/value arguments.
func (f LogFields) ToSlice() []any {
	out := make([]any, 0, len(f)*2)
	for k, v := range f {
		out = append(out, k, v)
	}
	return out
}
