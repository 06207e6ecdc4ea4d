package models

// OperationState tracks a write operation through its lifecycle:
// Validating -> Submitting -> AwaitingConfirmation -> Reconciling -> Done,
// with Failed and TimedOut as the terminal failure states. Failed and
// TimedOut never mutate session state.
type OperationState string

const (
	OpValidating           OperationState = "validating"
	OpSubmitting           OperationState = "submitting"
	OpAwaitingConfirmation OperationState = "awaiting_confirmation"
	OpReconciling          OperationState = "reconciling"
	OpDone                 OperationState = "done"
	OpFailed               OperationState = "failed"
	OpTimedOut             OperationState = "timed_out"
)

type OperationKind string

const (
	OpClaimBadge  OperationKind = "claim_badge"
	OpCreateEvent OperationKind = "create_event"
)

// Operation is the observable record of one in-flight or completed
// write. TxHash is empty until the wallet accepts the submission.
type Operation struct {
	ID        string         `json:"id"`
	Kind      OperationKind  `json:"kind"`
	State     OperationState `json:"state"`
	TxHash    string         `json:"tx_hash,omitempty"`
	StartedAt int64          `json:"started_at"`
	Error     string         `json:"error,omitempty"`
}
