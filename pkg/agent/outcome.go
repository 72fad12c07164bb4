package agent

import "github.com/google/uuid"

// Status is the uniform handler result classification.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusNeedsInput Status = "needsInput"
	StatusError      Status = "error"
)

// Candidate is one entry of an ambiguous-match list, in presentation
// order.
type Candidate struct {
	Id    uuid.UUID
	Label string
}

// Outcome is the uniform contract every handler resolves to. No handler
// lets an error escape past this; failures become StatusError with a
// human-readable message and the underlying detail logged.
type Outcome struct {
	Status  Status
	Message string
	Payload interface{}
	// RejectedFields lists raw keys dropped by the protected-path guard
	// or left unresolved by the field resolver.
	RejectedFields []string
	// Candidates is set when the outcome needs a numbered selection.
	Candidates []Candidate
	// NeedsTarget marks the mid-flow ambiguity escape: the handler knows
	// the operation but not the target, and the dispatcher should
	// re-route the same turn through disambiguation.
	NeedsTarget bool
	// Intent carries the remembered operation alongside NeedsTarget.
	Intent *PendingIntent
}

func successOutcome(message string, payload interface{}) Outcome {
	return Outcome{Status: StatusSuccess, Message: message, Payload: payload}
}

func needsInputOutcome(message string) Outcome {
	return Outcome{Status: StatusNeedsInput, Message: message}
}

func errorOutcome(message string) Outcome {
	return Outcome{Status: StatusError, Message: message}
}
