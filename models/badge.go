package models

// Badge is a non-transferable proof-of-attendance record. The ledger
// enforces at most one badge per (event_id, attendee) pair; the client
// mirrors that invariant but never creates badges itself.
type Badge struct {
	EventID     uint64 `json:"event_id"`
	Attendee    string `json:"attendee"`
	BadgeNumber uint64 `json:"badge_number"`
	MintedAt    int64  `json:"minted_at"` // unix seconds
	EventName   string `json:"event_name"`
}
