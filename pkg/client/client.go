// Package client is a Go client for the messaging API plus the local inbox state a chat UI keeps.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Message struct {
	ID             string    `json:"id"`
	From           string    `json:"from"`
	FromModel      string    `json:"fromModel"`
	To             string    `json:"to"`
	ToModel        string    `json:"toModel"`
	Text           string    `json:"text"`
	Read           bool      `json:"read"`
	ConversationID string    `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Party struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Conversation struct {
	ID          string   `json:"id"`
	LastMessage *Message `json:"lastMessage"`
	OtherParty  Party    `json:"otherParty"`
	UnreadCount int64    `json:"unreadCount"`
}

type SendMessageRequest struct {
	From      string `json:"from"`
	FromModel string `json:"fromModel"`
	To        string `json:"to"`
	ToModel   string `json:"toModel"`
	Text      string `json:"text"`
}

// APIError is a non-2xx answer decoded from the response envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sends token as a Bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	var message Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) Conversations(ctx context.Context, id, role string) ([]Conversation, error) {
	var conversations []Conversation
	path := "/api/messages/conversations/" + url.PathEscape(id) + "/" + url.PathEscape(role)
	if err := c.do(ctx, http.MethodGet, path, nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// History returns the messages between two entities oldest first.
func (c *Client) History(ctx context.Context, self, other Participant) ([]Message, error) {
	query := url.Values{}
	query.Set("role1", self.Role)
	query.Set("role2", other.Role)

	var messages []Message
	path := "/api/messages/conversation/" + url.PathEscape(self.ID) + "/" + url.PathEscape(other.ID) + "?" + query.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error) {
	var result struct {
		ModifiedCount int64 `json:"modifiedCount"`
	}
	path := "/api/messages/read/" + url.PathEscape(conversationID) + "/" + url.PathEscape(recipientID)
	if err := c.do(ctx, http.MethodPut, path, nil, &result); err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "INVALID_RESPONSE", Message: strings.TrimSpace(string(raw))}
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
