package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v5"

	"poap-system/models"
	"poap-system/services"
)

type WalletHandler struct {
	session *models.Session
	claims  *services.ClaimService
}

func NewWalletHandler(session *models.Session, claims *services.ClaimService) *WalletHandler {
	return &WalletHandler{
		session: session,
		claims:  claims,
	}
}

// Connect binds the session to a wallet identity and runs the initial
// load. A failed load leaves the session connected with empty
// collections; the next successful reconciliation fills them.
func (h *WalletHandler) Connect(c echo.Context) error {
	var req struct {
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Address == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "address is required"})
	}

	h.session.Connect(req.Address)

	resp := map[string]any{
		"connected": true,
		"address":   req.Address,
	}
	if err := h.claims.Load(c.Request().Context()); err != nil {
		log.Printf("Connect: initial load: %v", err)
		resp["warning"] = "connected, but the initial ledger load failed"
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *WalletHandler) Disconnect(c echo.Context) error {
	h.session.Disconnect()
	return c.JSON(http.StatusOK, map[string]any{"connected": false})
}
