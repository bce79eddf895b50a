package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wellvitas/booking-platform/internal/wizard"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// endpointResponse is the booking endpoint's wire envelope.
type endpointResponse struct {
	OK     bool     `json:"ok"`
	ID     string   `json:"id,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Client delivers booking payloads to the submission endpoint over HTTP.
// A transport failure comes back as an error; an endpoint rejection comes
// back in the Result so the wizard can surface the messages verbatim.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a submission client for the given endpoint URL.
func NewClient(endpoint string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Submit posts the payload and decodes the endpoint's verdict.
func (c *Client) Submit(ctx context.Context, payload wizard.Payload) (wizard.Result, error) {
	if strings.TrimSpace(c.endpoint) == "" {
		return wizard.Result{}, fmt.Errorf("submit: missing endpoint URL")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return wizard.Result{}, fmt.Errorf("submit: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return wizard.Result{}, fmt.Errorf("submit: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wizard.Result{}, fmt.Errorf("submit: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return wizard.Result{}, fmt.Errorf("submit: read response: %w", err)
	}

	var env endpointResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			c.logger.Warn("booking endpoint returned undecodable body",
				"status", resp.StatusCode, "error", err)
			env = endpointResponse{}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 4xx carries field errors for the visitor; 5xx rarely says anything useful.
		return wizard.Result{Errors: env.Errors}, nil
	}
	if !env.OK {
		return wizard.Result{Errors: env.Errors}, nil
	}
	return wizard.Result{Accepted: true}, nil
}

var _ wizard.Submitter = (*Client)(nil)
