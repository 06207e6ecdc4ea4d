package ledger

import (
	"context"
	"strconv"

	"poap-system/models"
)

// Payload is the entry-function call submitted through the wallet.
// Numeric arguments are encoded as decimal strings, the way the node
// expects u64 values on the wire.
type Payload struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// PendingTransaction is the handle returned by a wallet submission.
type PendingTransaction struct {
	Hash string `json:"hash"`
}

// TransactionResult is the outcome of a transaction-by-hash lookup.
// Pending means the node has not finalized the transaction yet (or has
// not indexed it at all); Success and VMStatus are only meaningful once
// Pending is false.
type TransactionResult struct {
	Pending  bool
	Success  bool
	VMStatus string
}

// Ledger is the read side of the badge program: two view functions and
// the transaction-status lookup. The contract's state machine is
// authoritative; this client never interprets beyond these calls.
type Ledger interface {
	GetAllEvents(ctx context.Context, organizer string) ([]models.Event, error)
	GetUserBadges(ctx context.Context, attendee, organizer string) ([]models.Badge, error)
	GetTransactionByHash(ctx context.Context, hash string) (*TransactionResult, error)
	Health(ctx context.Context) error
}

// Wallet signs and submits a transaction on behalf of the connected
// identity. Submission can fail synchronously (wallet gone, signing
// declined); those failures map to the wallet sentinels and are never
// retried.
type Wallet interface {
	SignAndSubmitTransaction(ctx context.Context, payload *Payload) (*PendingTransaction, error)
}

// ClaimBadgePayload builds the claim_badge entry-function call.
func ClaimBadgePayload(moduleID, organizer string, eventID uint64) *Payload {
	return &Payload{
		Function:      moduleID + "::claim_badge",
		TypeArguments: []string{},
		Arguments:     []any{organizer, strconv.FormatUint(eventID, 10)},
	}
}

// CreateEventPayload builds the create_event entry-function call.
func CreateEventPayload(moduleID string, draft *models.EventDraft) *Payload {
	return &Payload{
		Function:      moduleID + "::create_event",
		TypeArguments: []string{},
		Arguments: []any{
			draft.Name,
			draft.Description,
			strconv.FormatInt(draft.StartTime, 10),
			strconv.FormatInt(draft.EndTime, 10),
			draft.Location,
			strconv.FormatUint(draft.MaxAttendees, 10),
		},
	}
}
