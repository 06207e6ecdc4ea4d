package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"poap-system/models"
)

type BadgeHandler struct {
	session *models.Session
}

func NewBadgeHandler(session *models.Session) *BadgeHandler {
	return &BadgeHandler{session: session}
}

// ListBadges returns the badges held by the connected identity, as of
// the last reconciliation.
func (h *BadgeHandler) ListBadges(c echo.Context) error {
	snap := h.session.Snapshot()
	if !snap.Connected {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "wallet not connected"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"badges":   snap.Badges,
		"attendee": snap.WalletAddress,
	})
}
