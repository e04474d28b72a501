// Package api is the client for the authenticated log endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/session"
)

// Client reads and writes log entries on behalf of a session. Every error
// it returns is a *domain.Error.
type Client interface {
	ListLogs(ctx context.Context, s *session.Session) ([]domain.LogEntry, error)
	CreateLog(ctx context.Context, s *session.Session, entry domain.NewLogEntry) (*domain.LogEntry, error)
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the service at cfg.Endpoint.
func NewClient(cfg Config, observer Observer) Client {
	return NewClientWithHTTP(cfg, &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: time.Duration(cfg.DialMs) * time.Millisecond,
			}).DialContext,
		},
	}, observer)
}

// NewClientWithHTTP is NewClient with a caller-supplied *http.Client.
func NewClientWithHTTP(cfg Config, hc *http.Client, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &httpClient{cfg: cfg, http: hc, observer: observer}
}

type listResponse struct {
	Logs    *[]domain.LogEntry `json:"logs"`
	Message string             `json:"message"`
}

type createResponse struct {
	Message string           `json:"message"`
	Log     *domain.LogEntry `json:"log"`
}

func (c *httpClient) ListLogs(ctx context.Context, s *session.Session) ([]domain.LogEntry, error) {
	var resp listResponse
	if err := c.call(ctx, s, http.MethodGet, "/logs", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Logs == nil {
		return nil, malformed(errors.New(`response has no "logs" list`))
	}
	return *resp.Logs, nil
}

func (c *httpClient) CreateLog(ctx context.Context, s *session.Session, entry domain.NewLogEntry) (*domain.LogEntry, error) {
	var resp createResponse
	if err := c.call(ctx, s, http.MethodPost, "/logs", entry, &resp); err != nil {
		return nil, err
	}
	if resp.Log == nil {
		return nil, malformed(errors.New(`response has no "log" object`))
	}
	return resp.Log, nil
}

// call performs one request, reports it to the observer and decodes a
// successful body into out.
func (c *httpClient) call(ctx context.Context, s *session.Session, method, path string, in any, out any) error {
	start := time.Now()
	status, err := c.do(ctx, s, method, path, in, out)
	c.observer.OnCallComplete(CallEvent{
		Method:  method,
		Path:    path,
		Status:  status,
		Latency: time.Since(start),
		Kind:    kindOf(err),
		Err:     err,
	})
	return err
}

func (c *httpClient) do(ctx context.Context, s *session.Session, method, path string, in any, out any) (int, error) {
	if s.AccessToken() == "" {
		return 0, domain.SessionMissing(errors.New("no access token"))
	}
	if d := c.cfg.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, &domain.Error{Kind: domain.KindLocalValidation, Message: "encoding request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, body)
	if err != nil {
		return 0, networkError(err)
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken())
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return 0, networkError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, networkError(fmt.Errorf("reading response: %w", err))
	}

	switch {
	case httpResp.StatusCode == http.StatusUnauthorized:
		return httpResp.StatusCode, domain.SessionMissing(serverError(httpResp.StatusCode, respBody))
	case httpResp.StatusCode < 200 || httpResp.StatusCode > 299:
		return httpResp.StatusCode, serverError(httpResp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return httpResp.StatusCode, malformed(err)
	}
	return httpResp.StatusCode, nil
}

func networkError(err error) *domain.Error {
	return &domain.Error{Kind: domain.KindNetworkFailure, Message: domain.ErrNetwork.Message, Err: err}
}

func malformed(err error) *domain.Error {
	return &domain.Error{Kind: domain.KindMalformedResponse, Message: domain.ErrMalformedResponse.Message, Err: err}
}

// serverError keeps the structured body when the server sent one.
func serverError(status int, body []byte) *domain.Error {
	e := &domain.Error{Kind: domain.KindServerReported, Status: status}
	var eb domain.ServerErrorBody
	if json.Unmarshal(body, &eb) == nil && (eb.Error != "" || eb.Message != "") {
		e.Body = &eb
	}
	switch {
	case e.Body != nil && eb.Error != "":
		e.Message = eb.Error
	case e.Body != nil:
		e.Message = eb.Message
	default:
		e.Message = fmt.Sprintf("server returned status %d", status)
	}
	return e
}

func kindOf(err error) domain.Kind {
	if err == nil {
		return domain.KindUnknown
	}
	return domain.KindOf(err)
}
