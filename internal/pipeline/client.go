package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// IssueRequest is the body sent to the issue endpoint.
type IssueRequest struct {
	TicketTypeID string `json:"ticket_type_id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	LinkOnly     bool   `json:"link_only,omitempty"`
	SkipEmail    bool   `json:"skip_email,omitempty"`
}

// IssueResponse is the data half of the service's response envelope.
type IssueResponse struct {
	TicketID  string `json:"ticket_id"`
	TicketURL string `json:"ticket_url"`
}

type issueEnvelope struct {
	Data *struct {
		Ticket *struct {
			ID string `json:"id"`
		} `json:"ticket"`
		TicketURL string `json:"ticket_url"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RequestError is a non-2xx response from the issue endpoint.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("issue endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("issue endpoint returned status %d: %s", e.StatusCode, e.Message)
}

// Transient reports whether the failure is worth retrying: explicit rate
// limiting, any server error, or a network-level failure. Other client
// errors are definitive and retrying them can only waste the attempt budget.
func Transient(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == http.StatusTooManyRequests || reqErr.StatusCode >= 500
	}
	// Anything that never produced a status line is a network failure.
	return err != nil
}

// Issuer is the pipeline's view of the issuance service.
type Issuer interface {
	Issue(ctx context.Context, req IssueRequest) (*IssueResponse, error)
}

type httpIssuer struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPIssuer returns an Issuer that calls the ticket service at baseURL.
// apiKey may be empty when the service does not enforce one.
func NewHTTPIssuer(client *http.Client, baseURL, apiKey string) Issuer {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpIssuer{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *httpIssuer) Issue(ctx context.Context, issueReq IssueRequest) (*IssueResponse, error) {
	body, err := json.Marshal(issueReq)
	if err != nil {
		return nil, fmt.Errorf("marshal issue request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tickets/issue", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create issue request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call issue endpoint: %w", err)
	}
	defer resp.Body.Close()

	var envelope issueEnvelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ""
		if decodeErr == nil && envelope.Error != nil {
			msg = envelope.Error.Message
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode issue response: %w", decodeErr)
	}
	if envelope.Data == nil || envelope.Data.Ticket == nil {
		return nil, fmt.Errorf("issue response missing ticket data")
	}
	return &IssueResponse{
		TicketID:  envelope.Data.Ticket.ID,
		TicketURL: envelope.Data.TicketURL,
	}, nil
}
