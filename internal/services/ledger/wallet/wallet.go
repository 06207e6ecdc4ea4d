package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"poap-system/internal/services/ledger"
	"poap-system/internal/status"
)

type (
	Config struct {
		BridgeURL string `json:"bridge_url" mapstructure:"bridge_url"`

		RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"`
	}

	// Bridge forwards signing requests to the wallet service that holds
	// the user's keys. This process never sees key material; it only
	// ships payloads and receives pending-transaction hashes.
	Bridge struct {
		baseURL string
		hc      *http.Client
	}
)

var _ ledger.Wallet = (*Bridge)(nil)

func New(cfg *Config) (*Bridge, error) {
	if cfg.BridgeURL == "" {
		return nil, fmt.Errorf("wallet.New: bridge url is required")
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		// Signing waits on a human; give the prompt room to breathe.
		timeout = 60 * time.Second
	}

	return &Bridge{
		baseURL: strings.TrimRight(cfg.BridgeURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

// SignAndSubmitTransaction asks the wallet to sign and broadcast the
// payload. A transport failure means the wallet is unreachable; a 403
// means the user declined the signing prompt. Neither is retried.
func (b *Bridge) SignAndSubmitTransaction(ctx context.Context, payload *ledger.Payload) (*ledger.PendingTransaction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("SignAndSubmitTransaction: json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/transactions/sign-and-submit", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("SignAndSubmitTransaction: http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SignAndSubmitTransaction: %v: %w", err, status.ErrWalletUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		rbody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("SignAndSubmitTransaction: %s: %w", rbody, status.ErrUserRejected)
	}
	if resp.StatusCode != http.StatusOK {
		rbody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("SignAndSubmitTransaction: resp.StatusCode: %d, resp.Body: %s: %w", resp.StatusCode, rbody, status.ErrWalletUnavailable)
	}

	var reply ledger.PendingTransaction
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return nil, fmt.Errorf("SignAndSubmitTransaction: json.Decode: %w", err)
	}
	if reply.Hash == "" {
		return nil, fmt.Errorf("SignAndSubmitTransaction: empty transaction hash: %w", status.ErrWalletUnavailable)
	}

	return &reply, nil
}
