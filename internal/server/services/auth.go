// Package services contains server-side business logic. This file implements
// AuthService, which composes the account repository, password hasher, and
// session store into the register/login/logout/profile operations.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okulov/chatter/internal/apperror"
	"github.com/okulov/chatter/internal/common"
	"github.com/okulov/chatter/internal/logging"
	"github.com/okulov/chatter/internal/server/accounts"
	"github.com/okulov/chatter/internal/server/models"
	"github.com/okulov/chatter/internal/server/password"
	"github.com/okulov/chatter/internal/server/sessions"
)

// AuthService provides authentication-related operations:
// - Register: create an account and establish a session
// - Login: verify credentials, bump last-login, establish a session
// - Logout: destroy a session (idempotent)
// - Profile: resolve a session to its outward-facing account record
// - ListUsers: session-gated user directory
//
// Errors returned to callers are *apperror.AppError values; the HTTP layer
// maps them to status codes without inspecting internals.
type AuthService struct {
	accounts accounts.Repository
	sessions sessions.Store
	hasher   password.Hasher
	logger   logging.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(repo accounts.Repository, store sessions.Store, hasher password.Hasher, logger logging.Logger) *AuthService {
	return &AuthService{
		accounts: repo,
		sessions: store,
		hasher:   hasher,
		logger:   logger.With("module", "auth"),
		now:      time.Now,
	}
}

// RegisterParams carries already-validated registration input. Field
// presence, password length, and confirmation matching are checked at the
// endpoint boundary before the service is touched.
type RegisterParams struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

// Register hashes the password, assigns a time-based id, persists the new
// account, and establishes a session bound to it.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (*models.Account, *sessions.Session, error) {
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, nil, apperror.NewInternalError("internal server error", err)
	}

	now := s.now().UTC()
	account := &models.Account{
		// Time-based ids match the original store format. Uniqueness is not
		// cryptographically guaranteed; collision probability is negligible
		// at this scale.
		ID:           fmt.Sprintf("%d", now.UnixMilli()),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Username:     p.Username,
		Email:        strings.ToLower(p.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		LastLoginAt:  now,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, accounts.ErrUsernameTaken) || errors.Is(err, accounts.ErrEmailTaken) {
			return nil, nil, apperror.NewConflictError(err.Error(), err)
		}
		s.logger.Error(ctx, "account create failed", "error", err.Error())
		return nil, nil, apperror.NewInternalError("internal server error", err)
	}

	session, err := s.sessions.Create(ctx, created.ID)
	if err != nil {
		s.logger.Error(ctx, "session create failed", "error", err.Error())
		return nil, nil, apperror.NewInternalError("internal server error", err)
	}

	s.logger.Info(ctx, "account registered", "id", created.ID, "username", created.Username)
	return created, session, nil
}

// Login looks the account up by username or email and verifies the password.
// Unknown identifier and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, plaintext string) (*models.Account, *sessions.Session, error) {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, apperror.NewUnauthorizedError("invalid credentials", nil)
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return nil, nil, apperror.NewInternalError("internal server error", err)
	}

	if !s.hasher.Verify(plaintext, account.PasswordHash) {
		return nil, nil, apperror.NewUnauthorizedError("invalid credentials", nil)
	}

	account.LastLoginAt = s.now().UTC()
	if err := s.accounts.Update(ctx, account); err != nil {
		s.logger.Error(ctx, "last-login update failed", "error", err.Error())
		return nil, nil, apperror.NewInternalError("internal server error", err)
	}

	session, err := s.sessions.Create(ctx, account.ID)
	if err != nil {
		s.logger.Error(ctx, "session create failed", "error", err.Error())
		return nil, nil, apperror.NewInternalError("internal server error", err)
	}

	s.logger.Info(ctx, "login", "id", account.ID, "username", account.Username)
	return account, session, nil
}

// Logout destroys the session regardless of prior state.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		s.logger.Error(ctx, "session destroy failed", "error", err.Error())
		return apperror.NewInternalError("internal server error", err)
	}
	return nil
}

// Profile resolves the session token to its account record. A valid session
// whose account has since been deleted yields NotFound, never the stale id.
func (s *AuthService) Profile(ctx context.Context, token string) (*models.Account, error) {
	accountID, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, apperror.NewNotFoundError("account not found", err)
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return nil, apperror.NewInternalError("internal server error", err)
	}
	return account, nil
}

// ListUsers returns all accounts, newest first, for an authenticated caller.
func (s *AuthService) ListUsers(ctx context.Context, token string) ([]*models.Account, error) {
	if _, err := s.resolve(ctx, token); err != nil {
		return nil, err
	}

	list, err := s.accounts.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "account list failed", "error", err.Error())
		return nil, apperror.NewInternalError("internal server error", err)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *AuthService) resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperror.NewUnauthorizedError("unauthenticated", nil)
	}
	accountID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return "", apperror.NewUnauthorizedError("unauthenticated", err)
		}
		s.logger.Error(ctx, "session resolve failed", "error", err.Error())
		return "", apperror.NewInternalError("internal server error", err)
	}
	return accountID, nil
}
