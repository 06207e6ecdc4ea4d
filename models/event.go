package models

// EventStatus is derived from the clock and the event's time window.
// It is recomputed on every read and never persisted.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusActive   EventStatus = "active"
	StatusPast     EventStatus = "past"
)

// EventFilter selects which events a listing returns.
type EventFilter string

const (
	FilterAll      EventFilter = "all"
	FilterActive   EventFilter = "active"
	FilterUpcoming EventFilter = "upcoming"
	FilterPast     EventFilter = "past"
)

type Event struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	StartTime        int64  `json:"start_time"` // unix seconds
	EndTime          int64  `json:"end_time"`   // unix seconds
	MaxAttendees     uint64 `json:"max_attendees"`
	CurrentAttendees uint64 `json:"current_attendees"`
	Organizer        string `json:"organizer"`
}

// EventDraft is the client-side input for event creation. The ledger
// assigns the id and records the signer as organizer.
type EventDraft struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	StartTime    int64  `json:"start_time"`
	EndTime      int64  `json:"end_time"`
	MaxAttendees uint64 `json:"max_attendees"`
}
