package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testSession() *session.Session {
	return &session.Session{
		Token:  &oauth2.Token{AccessToken: "tok-1", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)},
		UserID: "u-1",
		Email:  "ada@example.edu",
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc, obs Observer) Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	return NewClientWithHTTP(cfg, srv.Client(), obs)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (r *recordingObserver) OnCallComplete(e CallEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestClient_ListLogs_Success(t *testing.T) {
	obs := &recordingObserver{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/logs", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"logs":[{"id":"a","timestamp":"2024-03-01T09:00:00Z","productivity":"High","feedback":"ok","blockers":""}],"message":"Logs retrieved successfully"}`))
	}, obs)

	logs, err := c.ListLogs(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.ProductivityHigh, logs[0].Productivity)
	assert.Equal(t, 2024, logs[0].Timestamp.Year())

	require.Len(t, obs.events, 1)
	assert.Equal(t, http.StatusOK, obs.events[0].Status)
	assert.NoError(t, obs.events[0].Err)
}

func TestClient_ListLogs_EmptyList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logs":[],"message":"No logs found"}`))
	}, nil)

	logs, err := c.ListLogs(context.Background(), testSession())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestClient_ListLogs_Malformed(t *testing.T) {
	bodies := map[string]string{
		"missing logs key": `{"message":"ok"}`,
		"null logs":        `{"logs":null}`,
		"not json":         `<html>oops</html>`,
		"wrong type":       `{"logs":"nope"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}, nil)
			_, err := c.ListLogs(context.Background(), testSession())
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestClient_Unauthorized_IsSessionMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}, nil)

	_, err := c.ListLogs(context.Background(), testSession())
	assert.Equal(t, domain.KindSessionMissing, domain.KindOf(err))
}

func TestClient_NoAccessToken_NoRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, nil)

	_, err := c.ListLogs(context.Background(), &session.Session{})
	assert.Equal(t, domain.KindSessionMissing, domain.KindOf(err))
	assert.False(t, called)
}

func TestClient_ServerError_KeepsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(domain.ServerErrorBody{Error: "Failed to fetch logs", Message: "db down"})
	}, nil)

	_, err := c.ListLogs(context.Background(), testSession())
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindServerReported, de.Kind)
	assert.Equal(t, http.StatusInternalServerError, de.Status)
	require.NotNil(t, de.Body)
	assert.Equal(t, "Failed to fetch logs", de.Body.Error)
	assert.Equal(t, "db down", de.Body.Message)
}

func TestClient_ServerError_NoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}, nil)

	_, err := c.ListLogs(context.Background(), testSession())
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindServerReported, de.Kind)
	assert.Nil(t, de.Body)
	assert.Contains(t, de.Error(), "502")
}

func TestClient_NetworkFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoint = "http://127.0.0.1:1" // nothing listening
	obs := &recordingObserver{}
	c := NewClient(cfg, obs)

	_, err := c.ListLogs(context.Background(), testSession())
	assert.ErrorIs(t, err, domain.ErrNetwork)
	require.Len(t, obs.events, 1)
	assert.Equal(t, domain.KindNetworkFailure, obs.events[0].Kind)
}

func TestClient_Timeout_IsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = srv.URL
	cfg.TimeoutMs = 50
	c := NewClientWithHTTP(cfg, srv.Client(), nil)

	_, err := c.ListLogs(context.Background(), testSession())
	assert.Equal(t, domain.KindNetworkFailure, domain.KindOf(err))
}

func TestClient_CreateLog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in domain.NewLogEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, domain.ProductivityLow, in.Productivity)
		assert.Equal(t, "tired", in.Feedback)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Log entry created successfully",
			"log": domain.LogEntry{
				ID:           "new-1",
				Timestamp:    time.Now().UTC(),
				Productivity: in.Productivity,
				Feedback:     in.Feedback,
			},
		})
	}, nil)

	got, err := c.CreateLog(context.Background(), testSession(), domain.NewLogEntry{
		Productivity: domain.ProductivityLow,
		Feedback:     "tired",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-1", got.ID)
}

func TestClient_CreateLog_StructuredError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota exceeded"}`))
	}, nil)

	_, err := c.CreateLog(context.Background(), testSession(), domain.DefaultNewLogEntry())
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "quota exceeded", de.Body.Error)
	assert.Equal(t, "quota exceeded", de.Error())
}

func TestClient_CreateLog_MissingLogObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"ok"}`))
	}, nil)

	_, err := c.CreateLog(context.Background(), testSession(), domain.DefaultNewLogEntry())
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
