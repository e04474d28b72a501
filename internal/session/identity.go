package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"golang.org/x/oauth2"
)

// ErrRejected indicates the identity service refused a sign-in or sign-up.
var ErrRejected = errors.New("identity service rejected the request")

// IdentityProvider talks to the identity endpoints of the API service and
// caches the resulting tokens in a Store.
type IdentityProvider struct {
	endpoint string
	oauth    *oauth2.Config
	http     *http.Client
	store    Store
	logger   *slog.Logger
}

// NewIdentityProvider builds a Provider for the service at endpoint.
// A nil httpClient gets a client with a dial timeout.
func NewIdentityProvider(endpoint, clientID string, store Store, httpClient *http.Client, logger *slog.Logger) *IdentityProvider {
	endpoint = strings.TrimRight(endpoint, "/")
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IdentityProvider{
		endpoint: endpoint,
		oauth: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  endpoint + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		http:   httpClient,
		store:  store,
		logger: logger,
	}
}

// oauthContext routes the oauth2 package's requests through our client.
func (p *IdentityProvider) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.http)
}

// Current returns the stored session, refreshing it first when the access
// token has expired. A missing session or a refused refresh clears the
// store and yields a KindSessionMissing error.
func (p *IdentityProvider) Current(ctx context.Context) (*Session, error) {
	s, err := p.store.Load()
	if errors.Is(err, ErrNotStored) {
		return nil, domain.SessionMissing(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s.Valid() {
		return s, nil
	}
	if s.Token.RefreshToken == "" {
		_ = p.store.Clear()
		return nil, domain.SessionMissing(errors.New("session expired"))
	}

	tok, err := p.oauth.TokenSource(p.oauthContext(ctx), s.Token).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			p.logger.Info("session refresh rejected", "reason", retrieveErrorText(re))
			_ = p.store.Clear()
			return nil, domain.SessionMissing(err)
		}
		return nil, fmt.Errorf("refreshing session: %w", err)
	}

	refreshed := sessionFromToken(tok, s)
	if err := p.store.Save(refreshed); err != nil {
		return nil, err
	}
	p.logger.Debug("session refreshed", "user_id", refreshed.UserID, "expiry", tok.Expiry)
	return refreshed, nil
}

// SignIn exchanges credentials for tokens with the password grant.
func (p *IdentityProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	tok, err := p.oauth.PasswordCredentialsToken(p.oauthContext(ctx), strings.TrimSpace(email), password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("%w: %s", ErrRejected, retrieveErrorText(re))
		}
		return nil, fmt.Errorf("signing in: %w", err)
	}

	s := sessionFromToken(tok, &Session{Email: strings.TrimSpace(email)})
	if err := p.store.Save(s); err != nil {
		return nil, err
	}
	p.logger.Info("signed in", "user_id", s.UserID)
	return s, nil
}

// SignUp registers an account and then signs in with it.
func (p *IdentityProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"email": strings.TrimSpace(email), "password": password})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/auth/signup", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var eb domain.ServerErrorBody
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, eb.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return p.SignIn(ctx, email, password)
}

// SignOut revokes the session server side when possible and always forgets
// it locally.
func (p *IdentityProvider) SignOut(ctx context.Context) error {
	s, err := p.store.Load()
	if err == nil && s.AccessToken() != "" {
		if rerr := p.revoke(ctx, s); rerr != nil {
			p.logger.Warn("server sign-out failed", "error", rerr)
		}
	}
	return p.store.Clear()
}

func (p *IdentityProvider) revoke(ctx context.Context, s *Session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/auth/signout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken())
	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("sign-out returned status %d", resp.StatusCode)
	}
	return nil
}

// sessionFromToken reads the identity extras the token endpoint returns,
// falling back to prev for anything absent.
func sessionFromToken(tok *oauth2.Token, prev *Session) *Session {
	s := &Session{Token: tok}
	if prev != nil {
		s.UserID = prev.UserID
		s.Email = prev.Email
	}
	if v, ok := tok.Extra("user_id").(string); ok && v != "" {
		s.UserID = v
	}
	if v, ok := tok.Extra("email").(string); ok && v != "" {
		s.Email = v
	}
	return s
}

func retrieveErrorText(re *oauth2.RetrieveError) string {
	switch {
	case re.ErrorDescription != "":
		return re.ErrorDescription
	case re.ErrorCode != "":
		return re.ErrorCode
	case re.Response != nil:
		return fmt.Sprintf("status %d", re.Response.StatusCode)
	}
	return "unknown error"
}

var _ Provider = (*IdentityProvider)(nil)
