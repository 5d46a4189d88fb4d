// Package sagalog records every state transition of a saga so that an
// interrupted one can be found afterwards and correlated with its trace.
package sagalog

import "time"

// Status is the state of a saga after its latest transition.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// SagaLog is one appended transition.
type SagaLog struct {
	// SagaID is the order id for order placement sagas.
	SagaID      string
	Status      Status
	CurrentStep string
	// Payload is the JSON input, only set on STARTED.
	Payload string
	// ErrorMessages is a JSON array of failure descriptions.
	ErrorMessages string
	TraceID       string
	SpanID        string
	UpdatedAt     time.Time
}

// Terminal reports whether no further transitions are expected.
func (l SagaLog) Terminal() bool {
	return l.Status == StatusCompleted || l.Status == StatusFailed
}
