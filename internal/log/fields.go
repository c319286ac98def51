package log

// Standard field names so log lines stay grep-able across components.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"

	FieldExpenseID = "expense_id"
	FieldCategory  = "category"
	FieldMonth     = "month"
	FieldAmount    = "amount"
	FieldBackend   = "backend"
	FieldQueue     = "queue"
	FieldEventType = "event_type"
)

// Component names.
const (
	ComponentApp     = "budget"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentWorker  = "worker"
)
