package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"poap-system/models"
	"poap-system/services"
)

type EventHandler struct {
	session *models.Session
	claims  *services.ClaimService
}

func NewEventHandler(session *models.Session, claims *services.ClaimService) *EventHandler {
	return &EventHandler{
		session: session,
		claims:  claims,
	}
}

// eventView decorates an event with its derived status and the current
// identity's claim eligibility. Status is computed per request, never
// stored.
type eventView struct {
	models.Event
	Status       models.EventStatus `json:"status"`
	CanClaim     bool               `json:"can_claim"`
	ClaimBlocked string             `json:"claim_blocked_reason,omitempty"`
}

// ListEvents returns events in ledger order, optionally filtered by
// derived status (?filter=all|active|upcoming|past).
func (h *EventHandler) ListEvents(c echo.Context) error {
	filter := models.EventFilter(c.QueryParam("filter"))
	if filter == "" {
		filter = h.session.Snapshot().Filter
	} else {
		h.session.SetFilter(filter)
	}

	snap := h.session.Snapshot()
	now := time.Now().Unix()

	events := services.FilterEvents(snap.Events, filter, now)
	views := make([]eventView, 0, len(events))
	for i := range events {
		view := eventView{
			Event:  events[i],
			Status: services.ClassifyEvent(&events[i], now),
		}
		if err := services.CanClaim(&events[i], &snap, now); err != nil {
			view.ClaimBlocked = err.Error()
		} else {
			view.CanClaim = true
		}
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"events": views,
		"filter": filter,
	})
}

// CreateEvent submits an event-creation transaction for the connected
// organizer and waits for finality.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var draft models.EventDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	evt, err := h.claims.SubmitEventCreation(c.Request().Context(), &draft)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, evt)
}
