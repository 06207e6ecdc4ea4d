package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poap-system/config"
	"poap-system/internal/services/ledger"
	"poap-system/models"
	"poap-system/services"
)

// stubLedger serves canned ledger state, enough to drive the
// coordinator end to end without a fullnode.
type stubLedger struct {
	events   []models.Event
	badges   []models.Badge
	txResult *ledger.TransactionResult
}

func (s *stubLedger) GetAllEvents(ctx context.Context, organizer string) ([]models.Event, error) {
	return s.events, nil
}

func (s *stubLedger) GetUserBadges(ctx context.Context, attendee, organizer string) ([]models.Badge, error) {
	return s.badges, nil
}

func (s *stubLedger) GetTransactionByHash(ctx context.Context, hash string) (*ledger.TransactionResult, error) {
	return s.txResult, nil
}

func (s *stubLedger) Health(ctx context.Context) error { return nil }

type stubWallet struct {
	hash string
	err  error
}

func (s *stubWallet) SignAndSubmitTransaction(ctx context.Context, payload *ledger.Payload) (*ledger.PendingTransaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ledger.PendingTransaction{Hash: s.hash}, nil
}

func setupHandlers(t *testing.T, lg *stubLedger, w *stubWallet) (*models.Session, *services.ClaimService) {
	t.Helper()

	cfg := &config.Config{
		ModuleAddress:   "0xmod",
		ModuleName:      "risein_poap",
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 20,
	}
	session := models.NewSession()
	claims := services.NewClaimService(cfg, lg, w, session, nil)
	return session, claims
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	e := echo.New()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	return rec
}

func activeWindow() (int64, int64) {
	now := time.Now().Unix()
	return now - 3600, now + 3600
}

func TestClaimHandler_Success(t *testing.T) {
	start, end := activeWindow()
	lg := &stubLedger{
		events: []models.Event{{
			ID: 0, Name: "Go Meetup", Description: "d", Location: "l",
			StartTime: start, EndTime: end,
			MaxAttendees: 100, CurrentAttendees: 25, Organizer: "0xmod",
		}},
		txResult: &ledger.TransactionResult{Success: true},
	}
	session, claims := setupHandlers(t, lg, &stubWallet{hash: "0xabc"})
	session.Connect("0xattendee")
	require.NoError(t, claims.Load(context.Background()))

	// After the claim lands, reconciliation sees the minted badge.
	lg.badges = []models.Badge{{EventID: 0, Attendee: "0xattendee", BadgeNumber: 26, EventName: "Go Meetup"}}

	handler := NewClaimHandler(claims)
	rec := doJSON(t, handler.Claim, http.MethodPost, "/api/claims", map[string]any{"event_id": 0})

	assert.Equal(t, http.StatusOK, rec.Code)

	var badge models.Badge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &badge))
	assert.Equal(t, uint64(26), badge.BadgeNumber)
}

func TestClaimHandler_NotConnected(t *testing.T) {
	_, claims := setupHandlers(t, &stubLedger{}, &stubWallet{hash: "0xabc"})

	handler := NewClaimHandler(claims)
	rec := doJSON(t, handler.Claim, http.MethodPost, "/api/claims", map[string]any{"event_id": 0})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClaimHandler_EventEnded(t *testing.T) {
	now := time.Now().Unix()
	lg := &stubLedger{
		events: []models.Event{{ID: 0, StartTime: now - 7200, EndTime: now - 3600}},
	}
	session, claims := setupHandlers(t, lg, &stubWallet{hash: "0xabc"})
	session.Connect("0xattendee")
	require.NoError(t, claims.Load(context.Background()))

	handler := NewClaimHandler(claims)
	rec := doJSON(t, handler.Claim, http.MethodPost, "/api/claims", map[string]any{"event_id": 0})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestClaimHandler_TimeoutIsUnknownOutcome(t *testing.T) {
	start, end := activeWindow()
	lg := &stubLedger{
		events:   []models.Event{{ID: 0, StartTime: start, EndTime: end, MaxAttendees: 10}},
		txResult: &ledger.TransactionResult{Pending: true},
	}
	session, claims := setupHandlers(t, lg, &stubWallet{hash: "0xslow"})
	session.Connect("0xattendee")
	require.NoError(t, claims.Load(context.Background()))

	handler := NewClaimHandler(claims)
	rec := doJSON(t, handler.Claim, http.MethodPost, "/api/claims", map[string]any{"event_id": 0})

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown", resp["outcome"])
}

func TestEventHandler_ListWithDerivedStatus(t *testing.T) {
	now := time.Now().Unix()
	lg := &stubLedger{
		events: []models.Event{
			{ID: 0, Name: "Past", StartTime: now - 7200, EndTime: now - 3600},
			{ID: 1, Name: "Live", StartTime: now - 60, EndTime: now + 60, MaxAttendees: 10},
		},
	}
	session, claims := setupHandlers(t, lg, &stubWallet{hash: "0xabc"})
	session.Connect("0xattendee")
	require.NoError(t, claims.Load(context.Background()))

	handler := NewEventHandler(session, claims)
	rec := doJSON(t, handler.ListEvents, http.MethodGet, "/api/events", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Events []struct {
			ID       uint64             `json:"id"`
			Status   models.EventStatus `json:"status"`
			CanClaim bool               `json:"can_claim"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 2)
	assert.Equal(t, models.StatusPast, resp.Events[0].Status)
	assert.False(t, resp.Events[0].CanClaim)
	assert.Equal(t, models.StatusActive, resp.Events[1].Status)
	assert.True(t, resp.Events[1].CanClaim)
}

func TestEventHandler_CreateValidationFailure(t *testing.T) {
	session, claims := setupHandlers(t, &stubLedger{}, &stubWallet{hash: "0xabc"})
	session.Connect("0xattendee")

	handler := NewEventHandler(session, claims)
	rec := doJSON(t, handler.CreateEvent, http.MethodPost, "/api/events", map[string]any{
		"name":          "Hack Night",
		"description":   "d",
		"location":      "l",
		"start_time":    time.Now().Unix() - 10,
		"end_time":      time.Now().Unix() + 100,
		"max_attendees": 10,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "start_time", resp["field"])
}

func TestWalletHandler_ConnectLoadsSession(t *testing.T) {
	start, end := activeWindow()
	lg := &stubLedger{
		events: []models.Event{{ID: 0, StartTime: start, EndTime: end}},
	}
	session, claims := setupHandlers(t, lg, &stubWallet{hash: "0xabc"})

	handler := NewWalletHandler(session, claims)
	rec := doJSON(t, handler.Connect, http.MethodPost, "/api/wallet/connect", map[string]string{"address": "0xattendee"})

	assert.Equal(t, http.StatusOK, rec.Code)

	snap := session.Snapshot()
	assert.True(t, snap.Connected)
	assert.Len(t, snap.Events, 1)
}

func TestBadgeHandler_RequiresConnection(t *testing.T) {
	session, _ := setupHandlers(t, &stubLedger{}, &stubWallet{})

	handler := NewBadgeHandler(session)
	rec := doJSON(t, handler.ListBadges, http.MethodGet, "/api/badges", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
