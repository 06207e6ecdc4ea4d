package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"poap-system/internal/status"
)

// respondError maps the claim taxonomy onto HTTP statuses. A
// confirmation timeout is deliberately 202: the outcome is unknown, not
// failed, and the caller must not treat it as either.
func respondError(c echo.Context, err error) error {
	body := map[string]string{"error": err.Error()}

	var vErr *status.ValidationError
	switch {
	case errors.Is(err, status.ErrNotConnected):
		return c.JSON(http.StatusUnauthorized, body)
	case errors.Is(err, status.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, body)
	case errors.Is(err, status.ErrEventNotStarted),
		errors.Is(err, status.ErrEventEnded),
		errors.Is(err, status.ErrAlreadyClaimed),
		errors.Is(err, status.ErrEventFull):
		return c.JSON(http.StatusConflict, body)
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
			"field": vErr.Field,
		})
	case errors.Is(err, status.ErrUserRejected):
		return c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, status.ErrWalletUnavailable):
		return c.JSON(http.StatusServiceUnavailable, body)
	case errors.Is(err, status.ErrConfirmationTimeout):
		body["outcome"] = "unknown"
		return c.JSON(http.StatusAccepted, body)
	default:
		return c.JSON(http.StatusBadGateway, body)
	}
}
