package sales

import "errors"

// ErrNotFound is returned when a sale with the given ID does not exist, or
// when a full-set operation finds no records at all.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned for records or payloads that break the schema.
var ErrValidation = errors.New("validation failed")

// ErrInvalidArgument is returned for unsupported export formats and
// malformed report periods.
var ErrInvalidArgument = errors.New("invalid argument")

// IngestionError aborts a whole CSV import. It matches ErrValidation.
type IngestionError struct {
	Reason string
}

func (e *IngestionError) Error() string {
	return "ingestion failed: " + e.Reason
}

// Is lets errors.Is(err, ErrValidation) match ingestion failures.
func (e *IngestionError) Is(target error) bool {
	return target == ErrValidation
}
