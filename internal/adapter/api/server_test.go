package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charityconnect/internal/adapter/api"
	"charityconnect/internal/app"
	"charityconnect/internal/domain/entity"
	"charityconnect/pkg/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		StorageDriver:  config.StorageMemory,
		EventQueueSize: 64,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg, slogt.New(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	t.Cleanup(func() {
		cancel()
		a.Dispatcher.Close()
	})
	return a
}

func do(t *testing.T, e *echo.Echo, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func createDonor(t *testing.T, e *echo.Echo, name, email string) entity.Donor {
	t.Helper()
	rec, env := do(t, e, http.MethodPost, "/api/donor", map[string]string{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return data[entity.Donor](t, env)
}

func createCharity(t *testing.T, e *echo.Echo, name, email string) entity.Charity {
	t.Helper()
	rec, env := do(t, e, http.MethodPost, "/api/charity", map[string]string{"name": name, "email": email, "address": "1 Main St"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return data[entity.Charity](t, env)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec := httptest.NewRecorder()
	a.Server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")
}

func TestSendListAndMarkRead(t *testing.T) {
	a := newTestApp(t, testConfig())
	e := a.Server

	donor := createDonor(t, e, "Dana", "dana@example.com")
	charity := createCharity(t, e, "Food Bank", "food@example.com")

	rec, env := do(t, e, http.MethodPost, "/api/messages", map[string]string{
		"from": donor.ID, "fromModel": "Donor", "to": charity.ID, "toModel": "Charity", "text": "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := data[entity.Message](t, env)
	assert.Equal(t, "hello", sent.Text)
	assert.False(t, sent.Read)
	assert.Equal(t, entity.DeriveConversationID(
		entity.Participant{ID: donor.ID, Role: entity.RoleDonor},
		entity.Participant{ID: charity.ID, Role: entity.RoleCharity},
	), sent.ConversationID)

	_, env = do(t, e, http.MethodGet, "/api/messages/conversations/"+donor.ID+"/Donor", nil)
	donorView := data[[]entity.Conversation](t, env)
	require.Len(t, donorView, 1)
	assert.Equal(t, sent.ConversationID, donorView[0].ID)
	assert.Equal(t, charity.ID, donorView[0].OtherParty.ID)
	assert.Equal(t, "Food Bank", donorView[0].OtherParty.Name)
	assert.Equal(t, int64(0), donorView[0].UnreadCount)

	_, env = do(t, e, http.MethodGet, "/api/messages/conversations/"+charity.ID+"/Charity", nil)
	charityView := data[[]entity.Conversation](t, env)
	require.Len(t, charityView, 1)
	assert.Equal(t, sent.ConversationID, charityView[0].ID)
	assert.Equal(t, int64(1), charityView[0].UnreadCount)

	rec, env = do(t, e, http.MethodPut, "/api/messages/read/"+sent.ConversationID+"/"+charity.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]int64{"modifiedCount": 1}, data[map[string]int64](t, env))

	_, env = do(t, e, http.MethodGet, "/api/messages/conversations/"+charity.ID+"/Charity", nil)
	charityView = data[[]entity.Conversation](t, env)
	require.Len(t, charityView, 1)
	assert.Equal(t, int64(0), charityView[0].UnreadCount)

	_, env = do(t, e, http.MethodGet, "/api/messages/conversation/"+donor.ID+"/"+charity.ID, nil)
	history := data[[]entity.Message](t, env)
	require.Len(t, history, 1)
	assert.True(t, history[0].Read)
}

func TestSendDirectAndDirectView(t *testing.T) {
	a := newTestApp(t, testConfig())
	e := a.Server

	donor := createDonor(t, e, "Dana", "dana@example.com")
	charity := createCharity(t, e, "Food Bank", "food@example.com")

	rec, env := do(t, e, http.MethodPost, "/api/messages/direct", map[string]string{
		"fromId": charity.ID, "fromModel": "Charity", "toId": donor.ID, "toModel": "Donor", "message": "thanks",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	summary := data[entity.DirectMessageSummary](t, env)
	assert.Equal(t, "Food Bank", summary.From)
	assert.Equal(t, "Dana", summary.To)
	assert.Equal(t, "thanks", summary.Message)

	for _, path := range []string{
		"/api/messages/direct/" + donor.ID + "/Donor",
		"/api/messages/direct/" + charity.ID + "/Charity",
	} {
		rec, env = do(t, e, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		view := data[[]entity.EmbeddedMessage](t, env)
		require.Len(t, view, 4, path)

		var found bool
		for _, m := range view {
			if m.Message == "thanks" {
				found = true
				assert.Equal(t, "Food Bank", m.From, path)
				assert.Equal(t, "Dana", m.To, path)
				assert.True(t, m.CreatedAt.Equal(summary.Timestamp), path)
			}
		}
		assert.True(t, found, path)
	}
}

func TestSendErrors(t *testing.T) {
	a := newTestApp(t, testConfig())
	e := a.Server
	donor := createDonor(t, e, "Dana", "dana@example.com")

	tests := []struct {
		name   string
		body   map[string]string
		status int
		code   string
	}{
		{
			name:   "missing text",
			body:   map[string]string{"from": donor.ID, "fromModel": "Donor", "to": "x", "toModel": "Charity"},
			status: http.StatusBadRequest,
			code:   "VALIDATION_ERROR",
		},
		{
			name:   "invalid model",
			body:   map[string]string{"from": donor.ID, "fromModel": "Admin", "to": "x", "toModel": "Charity", "text": "hi"},
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "unknown recipient",
			body:   map[string]string{"from": donor.ID, "fromModel": "Donor", "to": "missing", "toModel": "Charity", "text": "hi"},
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, e, http.MethodPost, "/api/messages", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestInvalidRoleAndConversationID(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec, env := do(t, a.Server, http.MethodGet, "/api/messages/conversations/abc/Admin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, _ = do(t, a.Server, http.MethodPut, "/api/messages/read/not-a-conversation/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	a := newTestApp(t, testConfig())

	rec, env := do(t, a.Server, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSendRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.SendMessageRatePerMinute = 1
	cfg.SendMessageBurst = 1
	a := newTestApp(t, cfg)
	e := a.Server

	donor := createDonor(t, e, "Dana", "dana@example.com")
	charity := createCharity(t, e, "Food Bank", "food@example.com")
	body := map[string]string{"from": donor.ID, "fromModel": "Donor", "to": charity.ID, "toModel": "Charity", "text": "hi"}

	rec, _ := do(t, e, http.MethodPost, "/api/messages", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, e, http.MethodPost, "/api/messages", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, testConfig())
	e := a.Server

	donor := createDonor(t, e, "Dana", "dana@example.com")
	charity := createCharity(t, e, "Food Bank", "food@example.com")
	rec, _ := do(t, e, http.MethodPost, "/api/messages", map[string]string{
		"from": donor.ID, "fromModel": "Donor", "to": charity.ID, "toModel": "Charity", "text": "hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `charityconnect_messages_sent_total{from_model="Donor",to_model="Charity"} 1`)
}

type denyVerifier struct{}

func (denyVerifier) VerifyToken(context.Context, string) (string, string, error) {
	return "", "", errors.New("token expired")
}

func TestAuthProtectsAPIOnly(t *testing.T) {
	a := newTestApp(t, testConfig())

	e := api.NewServer(api.Dependencies{
		MessageUseCase: a.MessageUseCase,
		DonorUseCase:   a.DonorUseCase,
		CharityUseCase: a.CharityUseCase,
		ProfileUseCase: a.ProfileUseCase,
		Metrics:        a.Metrics,
		Logger:         a.Logger,
		Verifier:       denyVerifier{},
	})

	rec, env := do(t, e, http.MethodGet, "/api/charities", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
