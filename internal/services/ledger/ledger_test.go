package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poap-system/models"
)

func TestClaimBadgePayload(t *testing.T) {
	payload := ClaimBadgePayload("0xmod::risein_poap", "0xmod", 42)

	assert.Equal(t, "0xmod::risein_poap::claim_badge", payload.Function)
	assert.Empty(t, payload.TypeArguments)
	// u64 arguments travel as decimal strings.
	assert.Equal(t, []any{"0xmod", "42"}, payload.Arguments)
}

func TestCreateEventPayload(t *testing.T) {
	draft := &models.EventDraft{
		Name:         "Hack Night",
		Description:  "Evening hack session",
		Location:     "Library",
		StartTime:    1700000000,
		EndTime:      1700007200,
		MaxAttendees: 40,
	}

	payload := CreateEventPayload("0xmod::risein_poap", draft)

	assert.Equal(t, "0xmod::risein_poap::create_event", payload.Function)
	assert.Equal(t, []any{
		"Hack Night",
		"Evening hack session",
		"1700000000",
		"1700007200",
		"Library",
		"40",
	}, payload.Arguments)
}
