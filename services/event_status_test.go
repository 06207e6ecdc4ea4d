package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poap-system/internal/status"
	"poap-system/models"
)

func testEvent(start, end int64) models.Event {
	return models.Event{
		ID:               0,
		Name:             "Test Meetup",
		Description:      "A test meetup",
		Location:         "Online",
		StartTime:        start,
		EndTime:          end,
		MaxAttendees:     100,
		CurrentAttendees: 25,
		Organizer:        "0xorganizer",
	}
}

func TestClassifyEvent_Boundaries(t *testing.T) {
	evt := testEvent(1000, 2000)

	assert.Equal(t, models.StatusUpcoming, ClassifyEvent(&evt, 999))
	assert.Equal(t, models.StatusActive, ClassifyEvent(&evt, 1000))
	assert.Equal(t, models.StatusActive, ClassifyEvent(&evt, 1500))
	assert.Equal(t, models.StatusActive, ClassifyEvent(&evt, 2000))
	assert.Equal(t, models.StatusPast, ClassifyEvent(&evt, 2001))
}

func TestClassifyEvent_ExhaustiveAndExclusive(t *testing.T) {
	evt := testEvent(1000, 2000)

	for now := int64(990); now <= 2010; now++ {
		st := ClassifyEvent(&evt, now)
		matches := 0
		if st == models.StatusUpcoming {
			matches++
		}
		if st == models.StatusActive {
			matches++
		}
		if st == models.StatusPast {
			matches++
		}
		assert.Equal(t, 1, matches, "now=%d", now)
	}
}

func TestClassifyEvent_MonotonicInNow(t *testing.T) {
	evt := testEvent(1000, 2000)

	rank := map[models.EventStatus]int{
		models.StatusUpcoming: 0,
		models.StatusActive:   1,
		models.StatusPast:     2,
	}

	prev := -1
	for now := int64(0); now <= 3000; now += 7 {
		r := rank[ClassifyEvent(&evt, now)]
		assert.GreaterOrEqual(t, r, prev, "status regressed at now=%d", now)
		prev = r
	}
}

func claimableSnapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		Connected:     true,
		WalletAddress: "0xattendee",
	}
}

func TestCanClaim_AllConditionsMet(t *testing.T) {
	evt := testEvent(1000, 2000)
	snap := claimableSnapshot()

	assert.NoError(t, CanClaim(&evt, &snap, 1500))
}

func TestCanClaim_Disconnected(t *testing.T) {
	evt := testEvent(1000, 2000)
	snap := claimableSnapshot()
	snap.Connected = false

	assert.ErrorIs(t, CanClaim(&evt, &snap, 1500), status.ErrNotConnected)
}

func TestCanClaim_WrongStatus(t *testing.T) {
	evt := testEvent(1000, 2000)
	snap := claimableSnapshot()

	assert.ErrorIs(t, CanClaim(&evt, &snap, 500), status.ErrEventNotStarted)
	assert.ErrorIs(t, CanClaim(&evt, &snap, 2500), status.ErrEventEnded)
}

func TestCanClaim_AlreadyClaimed(t *testing.T) {
	evt := testEvent(1000, 2000)
	snap := claimableSnapshot()
	snap.Badges = []models.Badge{{EventID: 0, Attendee: "0xattendee", BadgeNumber: 1, MintedAt: 1200}}

	assert.ErrorIs(t, CanClaim(&evt, &snap, 1500), status.ErrAlreadyClaimed)
}

func TestCanClaim_ConditionsCombined(t *testing.T) {
	evt := testEvent(1000, 2000)
	snap := claimableSnapshot()
	snap.Connected = false
	snap.Badges = []models.Badge{{EventID: 0}}

	// Disconnected wins: conditions are checked in order.
	assert.ErrorIs(t, CanClaim(&evt, &snap, 2500), status.ErrNotConnected)
}

func TestFilterEvents(t *testing.T) {
	now := int64(1500)
	events := []models.Event{
		{ID: 1, StartTime: 2000, EndTime: 3000}, // upcoming
		{ID: 2, StartTime: 1000, EndTime: 2000}, // active
		{ID: 3, StartTime: 100, EndTime: 200},   // past
		{ID: 4, StartTime: 1500, EndTime: 1500}, // active at both boundaries
	}

	all := FilterEvents(events, models.FilterAll, now)
	assert.Len(t, all, 4)

	active := FilterEvents(events, models.FilterActive, now)
	assert.Len(t, active, 2)
	assert.Equal(t, uint64(2), active[0].ID)
	assert.Equal(t, uint64(4), active[1].ID)

	upcoming := FilterEvents(events, models.FilterUpcoming, now)
	assert.Len(t, upcoming, 1)
	assert.Equal(t, uint64(1), upcoming[0].ID)

	past := FilterEvents(events, models.FilterPast, now)
	assert.Len(t, past, 1)
	assert.Equal(t, uint64(3), past[0].ID)
}
