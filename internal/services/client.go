package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/vidhi/internal/models"
)

var _ Service = (*Client)(nil)

// Client implements [Service] over HTTP.
type Client struct {
	api *APIService
}

// NewClient creates a client for the backend at baseURL. A nil httpClient uses [http.DefaultClient].
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return NewClientWith(NewAPIService(baseURL, httpClient))
}

// NewClientWith builds a client on an existing transport.
func NewClientWith(api *APIService) *Client {
	return &Client{api: api}
}

// API exposes the raw transport for debugging commands.
func (c *Client) API() *APIService {
	return c.api
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	APIKey string `json:"api_key"`
}

// Login calls POST /auth/login.
//
// Transport failures, non-2xx responses and responses without api_key are all reported as [*AuthError].
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", &AuthError{Message: DefaultLoginMessage, Err: err}
	}

	resp, err := c.api.Post(ctx, "/auth/login", models.Session{}, payload)
	if err != nil {
		return "", &AuthError{Message: DefaultLoginMessage, Err: err}
	}

	if !resp.OK() {
		msg := detailMessage(resp.Body)
		if msg == "" {
			msg = DefaultLoginMessage
		}
		return "", &AuthError{Status: resp.StatusCode, Message: msg}
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil || strings.TrimSpace(body.APIKey) == "" {
		return "", &AuthError{Status: resp.StatusCode, Message: DefaultLoginMessage, Err: err}
	}

	return body.APIKey, nil
}

// ListUpdates calls GET /updates/?type=<category>&limit=<n>.
func (c *Client) ListUpdates(ctx context.Context, s models.Session, category models.Category, limit int) ([]models.Update, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := url.Values{}
	query.Set("type", category.String())
	query.Set("limit", strconv.Itoa(limit))

	resp, err := c.call(ctx, http.MethodGet, "/updates/?"+query.Encode(), s, nil)
	if err != nil {
		return nil, err
	}

	var updates []models.Update
	if err := json.Unmarshal(resp.Body, &updates); err != nil {
		return nil, &TransportError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("failed to decode updates: %v", err),
			Err:     err,
		}
	}

	if updates == nil {
		updates = []models.Update{}
	}
	return updates, nil
}

// TriggerScrape calls POST /updates/fetch-live with an empty JSON object.
func (c *Client) TriggerScrape(ctx context.Context, s models.Session) error {
	_, err := c.call(ctx, http.MethodPost, "/updates/fetch-live", s, []byte("{}"))
	return err
}

// DeleteUpdate calls DELETE /updates/{id}.
func (c *Client) DeleteUpdate(ctx context.Context, s models.Session, id models.UpdateID) error {
	if id == "" {
		return &TransportError{Message: "missing update id"}
	}
	_, err := c.call(ctx, http.MethodDelete, "/updates/"+url.PathEscape(id.String()), s, nil)
	return err
}

// DeleteAllUpdates calls DELETE /updates/all.
func (c *Client) DeleteAllUpdates(ctx context.Context, s models.Session) error {
	_, err := c.call(ctx, http.MethodDelete, "/updates/all", s, nil)
	return err
}

// call performs an authorized request and maps failures onto [*AuthError] and [*TransportError].
func (c *Client) call(ctx context.Context, method, path string, s models.Session, body []byte) (*APIResponse, error) {
	resp, err := c.api.Do(ctx, method, path, s, body)
	if err != nil {
		return nil, transportFailure(err)
	}
	if !resp.OK() {
		return nil, statusError(resp)
	}
	return resp, nil
}
