package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"poap-system/services"
)

type ClaimHandler struct {
	claims *services.ClaimService
}

func NewClaimHandler(claims *services.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

// Claim submits a badge claim for the connected identity and waits for
// finality. The response carries the minted badge, or the taxonomy
// error including the "unknown outcome" timeout case.
func (h *ClaimHandler) Claim(c echo.Context) error {
	var req struct {
		EventID uint64 `json:"event_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	badge, err := h.claims.SubmitClaim(c.Request().Context(), req.EventID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, badge)
}

// GetOperations lists this session's write operations, newest state
// included, for lifecycle observability.
func (h *ClaimHandler) GetOperations(c echo.Context) error {
	if id := c.QueryParam("id"); id != "" {
		op, ok := h.claims.Operation(id)
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "operation not found"})
		}
		return c.JSON(http.StatusOK, op)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"operations": h.claims.Operations(),
	})
}
