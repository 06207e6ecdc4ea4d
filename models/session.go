package models

import "sync"

// Session holds the single browser-session view of ledger state. It is a
// single-writer container: collections are only mutated by Connect,
// Disconnect and ReplaceCollections (the reconciliation step of a
// completed write operation). Readers work from snapshots, so no lock is
// held across network calls.
type Session struct {
	mu            sync.RWMutex
	connected     bool
	walletAddress string
	events        []Event
	badges        []Badge
	filter        EventFilter
}

func NewSession() *Session {
	return &Session{filter: FilterAll}
}

func (s *Session) Connect(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	s.walletAddress = address
}

// Disconnect clears the identity and the collections tied to it.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	s.walletAddress = ""
	s.events = nil
	s.badges = nil
}

// ReplaceCollections swaps in freshly queried ledger state wholesale.
// Collections are never merged incrementally, so the local view cannot
// drift from ledger truth.
func (s *Session) ReplaceCollections(events []Event, badges []Badge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.badges = badges
}

func (s *Session) SetFilter(filter EventFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// Snapshot returns a consistent copy of the session for readers and for
// precondition checks. The slices are copied so callers can hold the
// snapshot across suspension points.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := SessionSnapshot{
		Connected:     s.connected,
		WalletAddress: s.walletAddress,
		Filter:        s.filter,
		Events:        make([]Event, len(s.events)),
		Badges:        make([]Badge, len(s.badges)),
	}
	copy(snap.Events, s.events)
	copy(snap.Badges, s.badges)
	return snap
}

// SessionSnapshot is an immutable point-in-time copy of a Session.
type SessionSnapshot struct {
	Connected     bool
	WalletAddress string
	Events        []Event
	Badges        []Badge
	Filter        EventFilter
}

// EventByID looks up an event in ledger order.
func (s *SessionSnapshot) EventByID(id uint64) (Event, bool) {
	for _, evt := range s.Events {
		if evt.ID == id {
			return evt, true
		}
	}
	return Event{}, false
}

// HasBadge reports whether the current identity already holds a badge
// for the given event.
func (s *SessionSnapshot) HasBadge(eventID uint64) bool {
	for _, b := range s.Badges {
		if b.EventID == eventID {
			return true
		}
	}
	return false
}
