package log

// Attribute keys shared across packages so log queries stay stable.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldView        = "view_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldHTMXTarget  = "hx_target"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldResource    = "resource"
	FieldResourceID  = "resource_id"
	FieldSeq         = "seq"
	FieldCount       = "count"
	FieldType        = "type"
	FieldAttempt     = "attempt"
	FieldExchange    = "exchange"
	FieldQueue       = "queue"
	FieldReason      = "reason"
	FieldBaseURL     = "base_url"
	FieldTimeout     = "timeout"
	FieldActivityID  = "activity_id"
	FieldSheetRef    = "sheet_ref"
	FieldSheet       = "sheet"
	FieldSpreadsheet = "spreadsheet_id"
)

const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentLedger = "ledger"
	ComponentBudget = "budget"
	ComponentWorker = "worker"
	ComponentCache  = "cache"
	ComponentTrace  = "trace"
	ComponentBroker = "amqp"
	ComponentREST   = "rest_client"
	ComponentSheets = "sheets"
)

// Operation names; create/update/delete double as the mutation verbs
// shown to users.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpRecord  = "record"
	OpMirror  = "mirror"
	OpPrune   = "prune"
	OpPredict = "predict"
	OpExport  = "export"
	OpRender  = "render"
)
