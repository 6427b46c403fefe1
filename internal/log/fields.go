package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldWorkItemID = "work_item_id"
	FieldBudgetLine = "budget_line_id"
	FieldSourceID   = "source_id"
	FieldAmount     = "amount"
	FieldEntity     = "entity"
	FieldAction     = "action"
	FieldExportPath = "export_path"
)

// Components tag the records each binary emits.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)

// Operations name the engine's read paths in log records.
const (
	OpOverview = "overview"
	OpPayback  = "payback"
)
