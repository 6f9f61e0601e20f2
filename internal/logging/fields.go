package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for cleaning run identifiers.
	FieldRunID = "run_id"
	// FieldChunk is the standardized structured logging key for zero-based chunk numbers.
	FieldChunk = "chunk"
	// FieldFile is the standardized structured logging key for the input file being handled.
	FieldFile = "file"
	// FieldEventType is the standardized key for machine-readable event names.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized key for the suggested next step after a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
