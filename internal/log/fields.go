package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldAccount       = "account"
	FieldAmountCents   = "amount_cents"
	FieldBucket        = "bucket"
	FieldBatchID       = "batch_id"
	FieldRowCount      = "row_count"
	FieldErrorCount    = "error_count"
	FieldSheetsRef     = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentNormalize = "normalize"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentReport    = "report"
)

// Operations defines standard operation names
const (
	OpAdd       = "add"
	OpUpdate    = "update"
	OpRemove    = "remove"
	OpQuery     = "query"
	OpImport    = "import"
	OpNormalize = "normalize"
	OpAssemble  = "assemble"
	OpRestore   = "restore"
	OpSync      = "sync"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
