package aptos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"poap-system/internal/services/ledger"
	"poap-system/models"
)

var _ ledger.Ledger = (*Client)(nil)

// view calls a Move view function on the fullnode. The reply is the
// array of the function's return values, left raw for the caller to
// decode.
func (c *Client) view(ctx context.Context, function string, args []any) ([]json.RawMessage, error) {
	reqBody := struct {
		Function      string   `json:"function"`
		TypeArguments []string `json:"type_arguments"`
		Arguments     []any    `json:"arguments"`
	}{
		Function:      function,
		TypeArguments: []string{},
		Arguments:     args,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("view: json.Marshal: %w", err)
	}

	var reply []json.RawMessage
	err = c.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/view", bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("view: http.NewRequestWithContext: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			return fmt.Errorf("view: c.hc.Do: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			rbody, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("view: resp.StatusCode: %d, resp.Body: %s", resp.StatusCode, rbody)
		}

		dec := json.NewDecoder(resp.Body)
		if err := dec.Decode(&reply); err != nil {
			return fmt.Errorf("view: json.Decode: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reply, nil
}

// eventRow is the wire shape of an event. The node encodes every u64 as
// a decimal string; parsing happens here and raw text never crosses
// into models.
type eventRow struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	MaxAttendees     string `json:"max_attendees"`
	CurrentAttendees string `json:"current_attendees"`
	Organizer        string `json:"organizer"`
}

func (r *eventRow) toModel() (models.Event, error) {
	evt := models.Event{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Organizer:   r.Organizer,
	}

	var err error
	if evt.ID, err = parseU64("id", r.ID); err != nil {
		return models.Event{}, err
	}
	if evt.StartTime, err = parseUnix("start_time", r.StartTime); err != nil {
		return models.Event{}, err
	}
	if evt.EndTime, err = parseUnix("end_time", r.EndTime); err != nil {
		return models.Event{}, err
	}
	if evt.MaxAttendees, err = parseU64("max_attendees", r.MaxAttendees); err != nil {
		return models.Event{}, err
	}
	if evt.CurrentAttendees, err = parseU64("current_attendees", r.CurrentAttendees); err != nil {
		return models.Event{}, err
	}
	return evt, nil
}

type badgeRow struct {
	EventID     string `json:"event_id"`
	Attendee    string `json:"attendee"`
	BadgeNumber string `json:"badge_number"`
	MintedAt    string `json:"minted_at"`
	EventName   string `json:"event_name"`
}

func (r *badgeRow) toModel() (models.Badge, error) {
	badge := models.Badge{
		Attendee:  r.Attendee,
		EventName: r.EventName,
	}

	var err error
	if badge.EventID, err = parseU64("event_id", r.EventID); err != nil {
		return models.Badge{}, err
	}
	if badge.BadgeNumber, err = parseU64("badge_number", r.BadgeNumber); err != nil {
		return models.Badge{}, err
	}
	if badge.MintedAt, err = parseUnix("minted_at", r.MintedAt); err != nil {
		return models.Badge{}, err
	}
	return badge, nil
}

func parseU64(field, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %q: %w", field, value, err)
	}
	return n, nil
}

func parseUnix(field, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %q: %w", field, value, err)
	}
	return n, nil
}

// GetAllEvents fetches the event collection in ledger order.
func (c *Client) GetAllEvents(ctx context.Context, organizer string) ([]models.Event, error) {
	reply, err := c.view(ctx, c.moduleID+"::get_all_events", []any{organizer})
	if err != nil {
		return nil, fmt.Errorf("GetAllEvents: %w", err)
	}
	if len(reply) == 0 {
		return []models.Event{}, nil
	}

	var rows []eventRow
	if err := json.Unmarshal(reply[0], &rows); err != nil {
		return nil, fmt.Errorf("GetAllEvents: json.Unmarshal: %w", err)
	}

	events := make([]models.Event, 0, len(rows))
	for i := range rows {
		evt, err := rows[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("GetAllEvents: %w", err)
		}
		events = append(events, evt)
	}
	return events, nil
}

// GetUserBadges fetches the badges held by attendee.
func (c *Client) GetUserBadges(ctx context.Context, attendee, organizer string) ([]models.Badge, error) {
	reply, err := c.view(ctx, c.moduleID+"::get_user_badges", []any{attendee, organizer})
	if err != nil {
		return nil, fmt.Errorf("GetUserBadges: %w", err)
	}
	if len(reply) == 0 {
		return []models.Badge{}, nil
	}

	var rows []badgeRow
	if err := json.Unmarshal(reply[0], &rows); err != nil {
		return nil, fmt.Errorf("GetUserBadges: json.Unmarshal: %w", err)
	}

	badges := make([]models.Badge, 0, len(rows))
	for i := range rows {
		badge, err := rows[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("GetUserBadges: %w", err)
		}
		badges = append(badges, badge)
	}
	return badges, nil
}

// GetTransactionByHash looks up finality for a submitted transaction.
// A 404 means the node has not indexed the hash yet and counts as
// still pending, not as an error.
func (c *Client) GetTransactionByHash(ctx context.Context, hash string) (*ledger.TransactionResult, error) {
	var result *ledger.TransactionResult
	err := c.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transactions/by_hash/"+hash, nil)
		if err != nil {
			return fmt.Errorf("GetTransactionByHash: http.NewRequestWithContext: %w", err)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			return fmt.Errorf("GetTransactionByHash: c.hc.Do: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			result = &ledger.TransactionResult{Pending: true}
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			rbody, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("GetTransactionByHash: resp.StatusCode: %d, resp.Body: %s", resp.StatusCode, rbody)
		}

		var reply struct {
			Type     string `json:"type"`
			Success  bool   `json:"success"`
			VMStatus string `json:"vm_status"`
		}
		dec := json.NewDecoder(resp.Body)
		if err := dec.Decode(&reply); err != nil {
			return fmt.Errorf("GetTransactionByHash: json.Decode: %w", err)
		}

		if reply.Type == "pending_transaction" {
			result = &ledger.TransactionResult{Pending: true}
			return nil
		}
		result = &ledger.TransactionResult{
			Success:  reply.Success,
			VMStatus: reply.VMStatus,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Health checks the fullnode liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/-/healthy", nil)
	if err != nil {
		return fmt.Errorf("Health: http.NewRequestWithContext: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("Health: c.hc.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Health: resp.StatusCode: %d", resp.StatusCode)
	}
	return nil
}
