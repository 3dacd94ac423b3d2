package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const defaultRetryAttempts = 2

// Client implements API over the backend's REST endpoints.
type Client struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

var _ API = (*Client)(nil)

// NewClient builds a client for the given base URL, authenticating every
// request with the opaque session id.
func NewClient(baseURL, sessionID string, timeout time.Duration, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("X-Session-Id", sessionID)
	client.SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if retryAttempts == 0 {
		retryAttempts = defaultRetryAttempts
	}

	return &Client{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

// isRetryableError determines if an error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	// 5xx server errors
	if strings.Contains(errStr, "response error 5") {
		return true
	}
	// Rate limiting
	if strings.Contains(errStr, "response error 429") {
		return true
	}
	return false
}

func (c *Client) withRetry(ctx context.Context, call func() error) error {
	return retry.Do(
		func() error {
			if err := call(); err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func checkResponse(response *resty.Response, err error, operation string) error {
	if err != nil {
		return fmt.Errorf("%s > %w", operation, err)
	}
	if response.IsError() {
		return fmt.Errorf("%s: response error %d: %s", operation, response.StatusCode(), response.String())
	}
	return nil
}

// ListCards returns every card of the session.
func (c *Client) ListCards(ctx context.Context) ([]CardPayload, error) {
	var cards []CardPayload
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetResult(&cards).
			Get("/api/flashcards")
		return checkResponse(response, err, "httpClient.Get(/api/flashcards)")
	})
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ListPacks returns every pack of the session.
func (c *Client) ListPacks(ctx context.Context) ([]PackPayload, error) {
	var packs []PackPayload
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetResult(&packs).
			Get("/api/flashcards/packs")
		return checkResponse(response, err, "httpClient.Get(/api/flashcards/packs)")
	})
	if err != nil {
		return nil, err
	}
	return packs, nil
}

// AddCard creates a card for the given source. The server rejects duplicates
// with 409, which surfaces as an error here; the store treats it as a no-op
// before ever calling this.
func (c *Client) AddCard(ctx context.Context, sourceType, sourceID string, packIDs []string) (*CardPayload, error) {
	body := map[string]any{
		"sourceType": sourceType,
		"sourceId":   sourceID,
	}
	if len(packIDs) > 0 {
		body["packIds"] = packIDs
	}

	var card CardPayload
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&card).
			Post("/api/flashcards")
		return checkResponse(response, err, "httpClient.Post(/api/flashcards)")
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// RemoveCard deletes a card.
func (c *Client) RemoveCard(ctx context.Context, cardID string) error {
	return c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			Delete("/api/flashcards/" + cardID)
		return checkResponse(response, err, "httpClient.Delete(/api/flashcards)")
	})
}

// SubmitReview submits a quality grade and returns the server-computed
// scheduling fields.
func (c *Client) SubmitReview(ctx context.Context, cardID string, quality int) (*ReviewResult, error) {
	var result ReviewResult
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"quality": quality}).
			SetResult(&result).
			Post("/api/flashcards/" + cardID + "/review")
		return checkResponse(response, err, "httpClient.Post(/api/flashcards/review)")
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePack creates a user pack.
func (c *Client) CreatePack(ctx context.Context, name, description, color string) (*PackPayload, error) {
	var pack PackPayload
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"name": name, "description": description, "color": color}).
			SetResult(&pack).
			Post("/api/flashcards/packs")
		return checkResponse(response, err, "httpClient.Post(/api/flashcards/packs)")
	})
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

// UpdatePack updates a user pack's attributes.
func (c *Client) UpdatePack(ctx context.Context, packID, name, description, color string) (*PackPayload, error) {
	var pack PackPayload
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"name": name, "description": description, "color": color}).
			SetResult(&pack).
			Put("/api/flashcards/packs/" + packID)
		return checkResponse(response, err, "httpClient.Put(/api/flashcards/packs)")
	})
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

// DeletePack deletes a user pack.
func (c *Client) DeletePack(ctx context.Context, packID string) error {
	return c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			Delete("/api/flashcards/packs/" + packID)
		return checkResponse(response, err, "httpClient.Delete(/api/flashcards/packs)")
	})
}

// UpdateCardPacks replaces a card's pack membership list.
func (c *Client) UpdateCardPacks(ctx context.Context, cardID string, packIDs []string) (*CardPayload, error) {
	var card CardPayload
	err := c.withRetry(ctx, func() error {
		response, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(map[string]any{"packIds": packIDs}).
			SetResult(&card).
			Put("/api/flashcards/" + cardID + "/packs")
		return checkResponse(response, err, "httpClient.Put(/api/flashcards/packs)")
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}
