package aptos

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"poap-system/utils"
)

type (
	Config struct {
		NodeURL       string `json:"node_url" mapstructure:"node_url"`
		ModuleAddress string `json:"module_address" mapstructure:"module_address"`
		ModuleName    string `json:"module_name" mapstructure:"module_name"`

		RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"`
	}

	// Client talks to an Aptos fullnode REST API. All calls go through
	// the circuit breaker so a dead node trips fast.
	Client struct {
		baseURL  string
		moduleID string

		hc      *http.Client
		breaker *utils.CircuitBreaker
	}
)

func New(cfg *Config) (*Client, error) {
	if cfg.NodeURL == "" {
		return nil, fmt.Errorf("aptos.New: node url is required")
	}
	if cfg.ModuleAddress == "" || cfg.ModuleName == "" {
		return nil, fmt.Errorf("aptos.New: module address and name are required")
	}

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.NodeURL, "/"),
		moduleID: fmt.Sprintf("%s::%s", cfg.ModuleAddress, cfg.ModuleName),
		hc:       &http.Client{Timeout: timeout},
		breaker:  utils.NewCircuitBreaker("aptos-fullnode"),
	}, nil
}

// ModuleID returns the fully qualified module identifier, e.g.
// "0xd972…::risein_poap".
func (c *Client) ModuleID() string {
	return c.moduleID
}
