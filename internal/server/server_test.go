package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/repository"
	"github.com/alexanderramin/studenttracker/internal/service"
	"github.com/alexanderramin/studenttracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	srv  *httptest.Server
	auth service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	cfg := service.DefaultAuthConfig()
	cfg.BcryptCost = bcrypt.MinCost
	auth := service.NewAuthService(
		repository.NewSQLiteUserRepo(database),
		repository.NewSQLiteTokenRepo(database),
		testutil.NewTestUoW(database),
		cfg,
	)
	logs := service.NewLogService(repository.NewSQLiteLogEntryRepo(database))

	srv := httptest.NewServer(New(auth, logs, Options{CORSOrigins: []string{"http://localhost:3000"}}))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, auth: auth}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) signIn(t *testing.T, email string) tokenResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/signup", "", strings.NewReader(`{"email":"`+email+`","password":"longenough"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	form := url.Values{"grant_type": {"password"}, "username": {email}, "password": {"longenough"}}
	tr, err := e.srv.Client().PostForm(e.srv.URL+"/oauth2/token", form)
	require.NoError(t, err)
	defer tr.Body.Close()
	require.Equal(t, http.StatusOK, tr.StatusCode)

	var tok tokenResponse
	require.NoError(t, json.NewDecoder(tr.Body).Decode(&tok))
	return tok
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogs_RequireBearer(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/logs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[domain.ServerErrorBody](t, resp)
	assert.Equal(t, "Unauthorized", body.Error)

	resp = env.do(t, http.MethodGet, "/logs", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogs_EmptyThenCreated(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signIn(t, "ada@example.edu")

	resp := env.do(t, http.MethodGet, "/logs", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decode[map[string]json.RawMessage](t, resp)
	assert.JSONEq(t, `[]`, string(empty["logs"]))
	assert.JSONEq(t, `"No logs found"`, string(empty["message"]))

	resp = env.do(t, http.MethodPost, "/logs", tok.AccessToken,
		strings.NewReader(`{"productivity":"Low","feedback":"ok","blockers":""}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[createLogResponse](t, resp)
	assert.Equal(t, "Log entry created successfully", created.Message)
	require.NotNil(t, created.Log)
	assert.Equal(t, domain.ProductivityLow, created.Log.Productivity)

	resp = env.do(t, http.MethodGet, "/logs", tok.AccessToken, nil)
	list := decode[listLogsResponse](t, resp)
	assert.Equal(t, "Logs retrieved successfully", list.Message)
	require.Len(t, list.Logs, 1)
	assert.Equal(t, created.Log.ID, list.Logs[0].ID)
}

func TestLogs_UserIDNeverSerialized(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signIn(t, "ada@example.edu")

	resp := env.do(t, http.MethodPost, "/logs", tok.AccessToken,
		strings.NewReader(`{"productivity":"High","feedback":"ok","userId":"someone-else"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "userId")
	assert.NotContains(t, string(raw), tok.UserID)
}

func TestLogs_ScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	ada := env.signIn(t, "ada@example.edu")
	bob := env.signIn(t, "bob@example.edu")

	resp := env.do(t, http.MethodPost, "/logs", ada.AccessToken, strings.NewReader(`{"productivity":"High","feedback":"ok"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	list := decode[listLogsResponse](t, env.do(t, http.MethodGet, "/logs", bob.AccessToken, nil))
	assert.Empty(t, list.Logs)
}

func TestCreateLog_Validation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signIn(t, "ada@example.edu")

	cases := []struct {
		name, body, want string
	}{
		{"empty body", ``, "No request body provided"},
		{"invalid json", `{"productivity":`, "Invalid JSON in request body"},
		{"missing feedback", `{"productivity":"High"}`, "Productivity level and feedback are required"},
		{"blank feedback", `{"productivity":"High","feedback":"  "}`, "Productivity level and feedback are required"},
		{"missing productivity", `{"feedback":"ok"}`, "Productivity level and feedback are required"},
		{"unknown productivity", `{"productivity":"Stellar","feedback":"ok"}`, "Productivity must be one of High, Medium, Low"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/logs", tok.AccessToken, strings.NewReader(tc.body))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.want, decode[domain.ServerErrorBody](t, resp).Error)
		})
	}
}

func TestSignUp_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "ada@example.edu")

	resp := env.do(t, http.MethodPost, "/auth/signup", "", strings.NewReader(`{"email":"ada@example.edu","password":"longenough"}`))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/auth/signup", "", strings.NewReader(`{"email":"bob@example.edu","password":"short"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password must be at least 8 characters", decode[domain.ServerErrorBody](t, resp).Error)

	resp = env.do(t, http.MethodPost, "/auth/signup", "", strings.NewReader(`{"email":"nope","password":"longenough"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToken_Grants(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signIn(t, "ada@example.edu")
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)
	assert.Equal(t, "ada@example.edu", tok.Email)

	post := func(form url.Values) *http.Response {
		resp, err := env.srv.Client().PostForm(env.srv.URL+"/oauth2/token", form)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := post(url.Values{"grant_type": {"refresh_token"}, "refresh_token": {tok.RefreshToken}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	rotated := decode[tokenResponse](t, resp)
	assert.NotEqual(t, tok.AccessToken, rotated.AccessToken)

	resp = post(url.Values{"grant_type": {"refresh_token"}, "refresh_token": {tok.RefreshToken}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_grant", decode[oauthError](t, resp).Error)

	resp = post(url.Values{"grant_type": {"password"}, "username": {"ada@example.edu"}, "password": {"wrong-pass"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_grant", decode[oauthError](t, resp).Error)

	resp = post(url.Values{"grant_type": {"client_credentials"}})
	assert.Equal(t, "unsupported_grant_type", decode[oauthError](t, resp).Error)
}

func TestSignOutAndMe(t *testing.T) {
	env := newTestEnv(t)
	tok := env.signIn(t, "ada@example.edu")

	me := decode[userResponse](t, env.do(t, http.MethodGet, "/auth/me", tok.AccessToken, nil))
	assert.Equal(t, "ada@example.edu", me.Email)
	assert.Equal(t, tok.UserID, me.ID)

	resp := env.do(t, http.MethodPost, "/auth/signout", tok.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/auth/me", tok.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t)
	req, err := http.NewRequest(http.MethodOptions, env.srv.URL+"/logs", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, http.MethodPost, resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestRun_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	go func() {
		done <- Run(ctx, ln, handler, nil, testLogger(), DefaultRunOptions())
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

type countingPurger struct{ calls chan struct{} }

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	select {
	case p.calls <- struct{}{}:
	default:
	}
	return 1, nil
}

func TestRun_PurgesPeriodically(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	purger := &countingPurger{calls: make(chan struct{}, 1)}
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, ln, http.NotFoundHandler(), purger, testLogger(), RunOptions{
			ShutdownTimeout: time.Second,
			PurgeInterval:   10 * time.Millisecond,
		})
	}()

	select {
	case <-purger.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("purger never ran")
	}
	cancel()
	assert.NoError(t, <-done)
}
