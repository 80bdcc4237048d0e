package app

import "time"

// Operation tracks a CLI command for the audit log. Operations start in
// memory with ID=0; only commands that change state persist them.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
	StartedAt  time.Time
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
		StartedAt:  time.Now().UTC(),
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// Fail marks the operation as failed when err is non-nil.
func (op *Operation) Fail(err error) {
	if err != nil {
		op.Status = "error"
	}
}
