package services

import (
	"poap-system/internal/status"
	"poap-system/models"
)

// ClassifyEvent derives the temporal status of an event at the given
// instant. Both window boundaries are inclusive: now == start_time and
// now == end_time classify as active. The three cases are mutually
// exclusive and exhaustive for any finite timestamp.
func ClassifyEvent(evt *models.Event, now int64) models.EventStatus {
	switch {
	case now < evt.StartTime:
		return models.StatusUpcoming
	case now > evt.EndTime:
		return models.StatusPast
	default:
		return models.StatusActive
	}
}

// CanClaim decides claim eligibility against a session snapshot. A nil
// return means claimable; otherwise the error names the first failing
// condition so the caller can render an accurate disabled state.
//
// A claim in flight is invisible here: no optimistic badge is added
// before the ledger confirms, so eligibility only flips once
// reconciliation lands.
func CanClaim(evt *models.Event, snap *models.SessionSnapshot, now int64) error {
	if !snap.Connected {
		return status.ErrNotConnected
	}

	switch ClassifyEvent(evt, now) {
	case models.StatusUpcoming:
		return status.ErrEventNotStarted
	case models.StatusPast:
		return status.ErrEventEnded
	}

	if snap.HasBadge(evt.ID) {
		return status.ErrAlreadyClaimed
	}

	return nil
}

// FilterEvents returns the events matching the filter, with status
// recomputed at call time. Ledger order is preserved.
func FilterEvents(events []models.Event, filter models.EventFilter, now int64) []models.Event {
	if filter == models.FilterAll || filter == "" {
		return events
	}

	filtered := make([]models.Event, 0, len(events))
	for i := range events {
		if models.EventFilter(ClassifyEvent(&events[i], now)) == filter {
			filtered = append(filtered, events[i])
		}
	}
	return filtered
}
