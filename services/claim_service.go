package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"poap-system/config"
	"poap-system/internal/services/ledger"
	"poap-system/internal/status"
	"poap-system/models"
	"poap-system/monitoring"
)

// ClaimService orchestrates the two write paths against the ledger:
// claiming a badge and creating an event. Both follow the same shape:
// local validation, wallet submission, bounded finality polling, then
// wholesale reconciliation of the session collections on success.
// Failure and timeout leave the session untouched; the ledger is the
// sole arbiter under concurrent claimants.
type ClaimService struct {
	cfg     *config.Config
	ledger  ledger.Ledger
	wallet  ledger.Wallet
	session *models.Session
	notify  *NotifyService

	moduleID string

	mu  sync.Mutex
	ops map[string]*models.Operation

	// now is a seam for tests; production uses the wall clock.
	now func() int64
}

func NewClaimService(cfg *config.Config, ledgerClient ledger.Ledger, walletClient ledger.Wallet, session *models.Session, notify *NotifyService) *ClaimService {
	return &ClaimService{
		cfg:      cfg,
		ledger:   ledgerClient,
		wallet:   walletClient,
		session:  session,
		notify:   notify,
		moduleID: fmt.Sprintf("%s::%s", cfg.ModuleAddress, cfg.ModuleName),
		ops:      make(map[string]*models.Operation),
		now:      func() int64 { return time.Now().Unix() },
	}
}

// confirmation outcomes of the finality poll. Unknown means the attempt
// budget ran out without a definitive answer; the transaction may still
// land later.
type confirmOutcome int

const (
	outcomeConfirmed confirmOutcome = iota
	outcomeFailed
	outcomeUnknown
)

// SubmitClaim mints a badge for the connected identity against an
// active event. Preconditions are checked in order and the first
// failure short-circuits with no network call.
func (s *ClaimService) SubmitClaim(ctx context.Context, eventID uint64) (*models.Badge, error) {
	op := s.newOperation(models.OpClaimBadge)
	monitoring.IncInflight()
	defer monitoring.DecInflight()

	snap := s.session.Snapshot()
	now := s.now()

	if !snap.Connected {
		return nil, s.failOp(op, status.ErrNotConnected)
	}
	evt, ok := snap.EventByID(eventID)
	if !ok {
		return nil, s.failOp(op, status.ErrEventNotFound)
	}
	if now < evt.StartTime {
		return nil, s.failOp(op, status.ErrEventNotStarted)
	}
	if now > evt.EndTime {
		return nil, s.failOp(op, status.ErrEventEnded)
	}
	if snap.HasBadge(eventID) {
		return nil, s.failOp(op, status.ErrAlreadyClaimed)
	}

	payload := ledger.ClaimBadgePayload(s.moduleID, s.cfg.ModuleAddress, eventID)
	if err := s.submitAndAwait(ctx, op, payload); err != nil {
		return nil, err
	}

	if err := s.reconcile(ctx, op, snap.WalletAddress); err != nil {
		return nil, err
	}

	fresh := s.session.Snapshot()
	var badge *models.Badge
	for i := range fresh.Badges {
		if fresh.Badges[i].EventID == eventID {
			badge = &fresh.Badges[i]
			break
		}
	}
	if badge == nil {
		// Confirmed on-ledger but missing from the badge query; the
		// session still reflects ledger truth, so only the return
		// value suffers.
		return nil, s.failOp(op, fmt.Errorf("SubmitClaim: confirmed badge for event %d not in reconciled state", eventID))
	}

	s.finishOp(op)
	s.notify.BadgeClaimed(snap.WalletAddress, badge)
	return badge, nil
}

// SubmitEventCreation validates a draft and creates the event through
// the wallet. Any validation failure is reported before any network
// interaction.
func (s *ClaimService) SubmitEventCreation(ctx context.Context, draft *models.EventDraft) (*models.Event, error) {
	op := s.newOperation(models.OpCreateEvent)
	monitoring.IncInflight()
	defer monitoring.DecInflight()

	snap := s.session.Snapshot()

	if !snap.Connected {
		return nil, s.failOp(op, status.ErrNotConnected)
	}
	if err := validateDraft(draft, s.now()); err != nil {
		return nil, s.failOp(op, err)
	}

	payload := ledger.CreateEventPayload(s.moduleID, draft)
	if err := s.submitAndAwait(ctx, op, payload); err != nil {
		return nil, err
	}

	if err := s.reconcile(ctx, op, snap.WalletAddress); err != nil {
		return nil, err
	}

	fresh := s.session.Snapshot()
	var created *models.Event
	for i := range fresh.Events {
		evt := &fresh.Events[i]
		if evt.Organizer == snap.WalletAddress && evt.Name == draft.Name && evt.StartTime == draft.StartTime {
			// Ledger order puts the newest assignment last.
			created = evt
		}
	}
	if created == nil {
		return nil, s.failOp(op, fmt.Errorf("SubmitEventCreation: created event %q not in reconciled state", draft.Name))
	}

	s.finishOp(op)
	s.notify.EventCreated(snap.WalletAddress, created)
	return created, nil
}

func validateDraft(draft *models.EventDraft, now int64) error {
	if strings.TrimSpace(draft.Name) == "" {
		return &status.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(draft.Description) == "" {
		return &status.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if strings.TrimSpace(draft.Location) == "" {
		return &status.ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if draft.StartTime >= draft.EndTime {
		return &status.ValidationError{Field: "start_time", Reason: "must be before end_time"}
	}
	if draft.StartTime <= now {
		return &status.ValidationError{Field: "start_time", Reason: "must be in the future"}
	}
	if draft.MaxAttendees < 1 {
		return &status.ValidationError{Field: "max_attendees", Reason: "must be at least 1"}
	}
	return nil
}

// submitAndAwait pushes the payload through the wallet and polls the
// ledger for finality. On anything but a confirmed execution it marks
// the operation terminal and returns the mapped error.
func (s *ClaimService) submitAndAwait(ctx context.Context, op *models.Operation, payload *ledger.Payload) error {
	s.setOpState(op, models.OpSubmitting)

	pending, err := s.wallet.SignAndSubmitTransaction(ctx, payload)
	if err != nil {
		return s.failOp(op, err)
	}

	s.mu.Lock()
	op.TxHash = pending.Hash
	s.mu.Unlock()
	s.setOpState(op, models.OpAwaitingConfirmation)

	started := time.Now()
	outcome, vmStatus, attempts := s.waitForTransaction(ctx, pending.Hash)
	monitoring.ObserveConfirmation(string(op.Kind), attempts, time.Since(started))

	switch outcome {
	case outcomeConfirmed:
		return nil
	case outcomeFailed:
		return s.failOp(op, status.MapVMStatus(vmStatus))
	default:
		s.setOpState(op, models.OpTimedOut)
		s.setOpError(op, status.ErrConfirmationTimeout)
		monitoring.RecordWriteOperation(string(op.Kind), string(models.OpTimedOut))
		return status.ErrConfirmationTimeout
	}
}

// waitForTransaction polls transaction-by-hash at the configured
// interval until the ledger reports execution, the attempt budget runs
// out, or the context is cancelled. Cancellation and budget exhaustion
// both yield an unknown outcome: the transaction may still land.
func (s *ClaimService) waitForTransaction(ctx context.Context, hash string) (confirmOutcome, string, int) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= s.cfg.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return outcomeUnknown, "", attempt - 1
		case <-ticker.C:
		}

		result, err := s.ledger.GetTransactionByHash(ctx, hash)
		if err != nil {
			// Transient lookup failure still consumes an attempt; the
			// overall bound matters more than any single poll.
			log.Printf("waitForTransaction: attempt %d: %v", attempt, err)
			continue
		}
		if result.Pending {
			continue
		}
		if result.Success {
			return outcomeConfirmed, result.VMStatus, attempt
		}
		return outcomeFailed, result.VMStatus, attempt
	}

	return outcomeUnknown, "", s.cfg.MaxPollAttempts
}

// reconcile re-runs the full event and badge queries and replaces the
// session collections wholesale. No optimistic increment ever happens,
// so the local view only moves when the ledger has.
func (s *ClaimService) reconcile(ctx context.Context, op *models.Operation, attendee string) error {
	s.setOpState(op, models.OpReconciling)

	events, err := s.ledger.GetAllEvents(ctx, s.cfg.ModuleAddress)
	if err != nil {
		return s.failOp(op, fmt.Errorf("reconcile: %w", err))
	}
	badges, err := s.ledger.GetUserBadges(ctx, attendee, s.cfg.ModuleAddress)
	if err != nil {
		return s.failOp(op, fmt.Errorf("reconcile: %w", err))
	}

	s.session.ReplaceCollections(events, badges)
	return nil
}

// Load refreshes the session from the ledger outside any write
// operation, e.g. right after the wallet connects.
func (s *ClaimService) Load(ctx context.Context) error {
	snap := s.session.Snapshot()
	if !snap.Connected {
		return status.ErrNotConnected
	}

	events, err := s.ledger.GetAllEvents(ctx, s.cfg.ModuleAddress)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}
	badges, err := s.ledger.GetUserBadges(ctx, snap.WalletAddress, s.cfg.ModuleAddress)
	if err != nil {
		return fmt.Errorf("Load: %w", err)
	}

	s.session.ReplaceCollections(events, badges)
	return nil
}

// Operation state tracking.

func (s *ClaimService) newOperation(kind models.OperationKind) *models.Operation {
	op := &models.Operation{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     models.OpValidating,
		StartedAt: s.now(),
	}

	s.mu.Lock()
	s.ops[op.ID] = op
	s.mu.Unlock()
	return op
}

func (s *ClaimService) setOpState(op *models.Operation, state models.OperationState) {
	s.mu.Lock()
	op.State = state
	s.mu.Unlock()
}

func (s *ClaimService) setOpError(op *models.Operation, err error) {
	s.mu.Lock()
	op.Error = err.Error()
	s.mu.Unlock()
}

func (s *ClaimService) failOp(op *models.Operation, err error) error {
	s.setOpState(op, models.OpFailed)
	s.setOpError(op, err)
	monitoring.RecordWriteOperation(string(op.Kind), string(models.OpFailed))
	log.Printf("%s %s: %v", op.Kind, op.ID, err)
	return err
}

func (s *ClaimService) finishOp(op *models.Operation) {
	s.setOpState(op, models.OpDone)
	monitoring.RecordWriteOperation(string(op.Kind), string(models.OpDone))
}

// Operation returns a copy of one tracked operation.
func (s *ClaimService) Operation(id string) (models.Operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.ops[id]
	if !ok {
		return models.Operation{}, false
	}
	return *op, true
}

// Operations returns copies of all tracked operations for this session.
func (s *ClaimService) Operations() []models.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := make([]models.Operation, 0, len(s.ops))
	for _, op := range s.ops {
		ops = append(ops, *op)
	}
	return ops
}
