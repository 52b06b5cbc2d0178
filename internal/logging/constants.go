package logging

// Standardized field names for structured logging.
// Registry diagnostics always carry the line or row index so an operator can
// find the offending record without re-parsing the file by hand.
const (
	FieldFile       = "file_path"
	FieldOutputFile = "output_file"
	FieldRunID      = "run_id"
	FieldLine       = "line"
	FieldRawLine    = "raw_line"
	FieldRowIndex   = "row_index"
	FieldCardNumber = "card_number"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldCount      = "count"
	FieldRejected   = "rejected"
	FieldResultCode = "result_code"
	FieldSessionID  = "session_id"
	FieldTariffID   = "tariff_id"
	FieldMinorUnits = "payment_sum_minor"
	FieldDurationMS = "duration_ms"
)
