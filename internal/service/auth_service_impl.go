package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alexanderramin/studenttracker/internal/db"
	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/alexanderramin/studenttracker/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// AuthConfig sets token lifetimes.
type AuthConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
}

func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTTL:  time.Hour,
		RefreshTTL: 30 * 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}
}

type authService struct {
	users    repository.UserRepo
	tokens   repository.TokenRepo
	uow      db.UnitOfWork
	cfg      AuthConfig
	observer UseCaseObserver
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepo,
	tokens repository.TokenRepo,
	uow db.UnitOfWork,
	cfg AuthConfig,
	observers ...UseCaseObserver,
) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		uow:      uow,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password string) (u *domain.User, err error) {
	startedAt := s.now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "sign-up", startedAt, err, fields) }()

	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	u = &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err = s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	fields["user_id"] = u.ID
	return u, nil
}

func (s *authService) PasswordGrant(ctx context.Context, email, password string) (pair *TokenPair, err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "password-grant", startedAt, err, nil) }()

	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var issueErr error
		pair, issueErr = s.issue(ctx, repository.NewSQLiteTokenRepo(tx), u)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// RefreshGrant rotates a refresh token: the presented token is revoked and
// a new pair issued in the same transaction.
func (s *authService) RefreshGrant(ctx context.Context, refreshToken string) (pair *TokenPair, err error) {
	startedAt := s.now()
	defer func() { s.observe(ctx, "refresh-grant", startedAt, err, nil) }()

	hash := HashToken(refreshToken)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tokens := repository.NewSQLiteTokenRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		tok, err := tokens.GetByHash(ctx, hash)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if tok.Kind != domain.TokenRefresh || !tok.Active(now) {
			return ErrInvalidToken
		}
		if err := tokens.Revoke(ctx, hash, now); err != nil {
			return err
		}

		u, err := users.GetByID(ctx, tok.UserID)
		if err != nil {
			return err
		}
		pair, err = s.issue(ctx, tokens, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	tok, err := s.tokens.GetByHash(ctx, HashToken(accessToken))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if tok.Kind != domain.TokenAccess || !tok.Active(s.now().UTC()) {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, tok.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return u, err
}

func (s *authService) SignOut(ctx context.Context, userID string) error {
	startedAt := s.now()
	n, err := s.tokens.RevokeAllForUser(ctx, userID, startedAt.UTC())
	s.observe(ctx, "sign-out", startedAt, err, map[string]any{"user_id": userID, "revoked": n})
	return err
}

func (s *authService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now().UTC())
}

func (s *authService) issue(ctx context.Context, tokens repository.TokenRepo, u *domain.User) (*TokenPair, error) {
	now := s.now().UTC()
	access, err := newSecret()
	if err != nil {
		return nil, err
	}
	refresh, err := newSecret()
	if err != nil {
		return nil, err
	}

	for _, t := range []*domain.Token{
		{Hash: HashToken(access), UserID: u.ID, Kind: domain.TokenAccess, ExpiresAt: now.Add(s.cfg.AccessTTL), CreatedAt: now},
		{Hash: HashToken(refresh), UserID: u.ID, Kind: domain.TokenRefresh, ExpiresAt: now.Add(s.cfg.RefreshTTL), CreatedAt: now},
	} {
		if err := tokens.Create(ctx, t); err != nil {
			return nil, err
		}
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.AccessTTL,
		User:         u,
	}, nil
}

func (s *authService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  s.now().Sub(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// HashToken returns the hex SHA-256 of a token secret, the form tokens are
// stored and looked up in.
func HashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func newSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
