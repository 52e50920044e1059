// Package gateway integrates the external KYC vendor (didit): session
// creation, webhook signature verification, replay protection, and raw
// payload archival.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "swapsecure/pkg/domain-errors"
)

// Session is the vendor's verification session as returned on creation.
type Session struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// Client creates verification sessions against the didit API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	workflowID string
	callback   string
}

// NewClient constructs a didit API client.
func NewClient(baseURL, apiKey, workflowID, callbackURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		workflowID: workflowID,
		callback:   callbackURL,
	}
}

type createSessionRequest struct {
	WorkflowID string `json:"workflow_id"`
	Callback   string `json:"callback"`
	VendorData string `json:"vendor_data"`
}

// CreateSession opens a vendor verification session. VendorData carries our
// swap session ID so the webhook can be correlated back. Anything other than
// a 201 from the vendor surfaces as CodeUnavailable: the workflow treats the
// vendor as a degraded dependency, not a validation failure.
func (c *Client) CreateSession(ctx context.Context, vendorData string) (*Session, error) {
	body, err := json.Marshal(createSessionRequest{
		WorkflowID: c.workflowID,
		Callback:   c.callback,
		VendorData: vendorData,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "marshal session request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/session/", bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build session request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification vendor unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("verification vendor returned %d: %s", resp.StatusCode, snippet))
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "decode vendor session")
	}
	if session.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnavailable, "vendor session missing id")
	}
	return &session, nil
}
