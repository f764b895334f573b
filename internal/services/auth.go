// Package services contains the core of Equilibri: account and session
// handling (AuthService), conversation storage rules (ConversationService)
// and the per-session conversation controller (Controller).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/equilibri/internal/auth"
	"github.com/dmitrijs2005/equilibri/internal/common"
	"github.com/dmitrijs2005/equilibri/internal/config"
	"github.com/dmitrijs2005/equilibri/internal/cryptox"
	"github.com/dmitrijs2005/equilibri/internal/dbx"
	"github.com/dmitrijs2005/equilibri/internal/logging"
	"github.com/dmitrijs2005/equilibri/internal/models"
	"github.com/dmitrijs2005/equilibri/internal/repositories/markers"
	"github.com/dmitrijs2005/equilibri/internal/repositories/repomanager"
)

// AuthService verifies credentials, registers accounts and keeps the durable
// session marker in the local database.
//
// Contract:
//   - Authenticate and Login fail closed: unknown login and wrong password
//     are the same common.ErrAuthenticationFailed.
//   - Register never logs the user in.
//   - RestoreSession never fails; anything unusable reads as "no session".
//   - ClearSession is idempotent.
type AuthService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	local       *sql.DB
	secret      []byte
	validity    time.Duration
	logger      logging.Logger
}

// NewAuthService builds the service. db is the credential store handle (nil
// for the in-process store), local is the marker database.
func NewAuthService(db dbx.DBTX, m repomanager.RepositoryManager, local *sql.DB, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		local:       local,
		secret:      []byte(cfg.SessionSecret),
		validity:    cfg.SessionValidity,
		logger:      logger,
	}
}

func validateCredentials(login string, password []byte) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || strings.TrimSpace(string(password)) == "" {
		return "", fmt.Errorf("%w: login and password must not be empty", common.ErrInvalidArgument)
	}
	return login, nil
}

// Register creates an account with an argon2id hash of password.
// A taken login yields common.ErrAuthenticationFailed wrapping
// common.ErrConflict.
func (s *AuthService) Register(ctx context.Context, login string, password []byte) error {
	login, err := validateCredentials(login, password)
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.repomanager.Users(s.db).Create(ctx, &models.User{Login: login, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return fmt.Errorf("%w: %w", common.ErrAuthenticationFailed, common.ErrConflict)
		}
		s.logger.Error(ctx, "user registration failed", "error", err)
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	s.logger.Info(ctx, "user registered", "login", login)
	return nil
}

func (s *AuthService) authenticate(ctx context.Context, login string, password []byte) (*models.User, error) {
	login, err := validateCredentials(login, password)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnVerification(password)
			return nil, common.ErrAuthenticationFailed
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrAuthenticationFailed
	}
	return user, nil
}

// Authenticate returns the ID of the user owning the credentials. It does
// not touch the session marker.
func (s *AuthService) Authenticate(ctx context.Context, login string, password []byte) (int64, error) {
	user, err := s.authenticate(ctx, login, password)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Login authenticates and persists the session marker.
func (s *AuthService) Login(ctx context.Context, login string, password []byte) (*models.User, error) {
	user, err := s.authenticate(ctx, login, password)
	if err != nil {
		s.logger.Warn(ctx, "login rejected", "login", strings.TrimSpace(login))
		return nil, err
	}
	if err := s.saveMarker(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

// LookupUser returns the account with the given ID.
func (s *AuthService) LookupUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return user, nil
}

// SaveSession writes the marker for userID, replacing any previous one.
func (s *AuthService) SaveSession(ctx context.Context, userID int64) error {
	user, err := s.LookupUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.saveMarker(ctx, user)
}

func (s *AuthService) saveMarker(ctx context.Context, user *models.User) error {
	token, err := auth.GenerateToken(user.ID, s.secret, s.validity)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.local, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := markers.NewSQLiteRepository(tx)
		if err := repo.Store(ctx, common.SessionTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Store(ctx, common.SessionLoginKey, []byte(user.Login))
	})
	if err != nil {
		s.logger.Error(ctx, "session marker not saved", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

// ClearSession erases the marker. Clearing an absent marker succeeds.
func (s *AuthService) ClearSession(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.local, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := markers.NewSQLiteRepository(tx)
		if err := repo.Erase(ctx, common.SessionTokenKey); err != nil {
			return err
		}
		return repo.Erase(ctx, common.SessionLoginKey)
	})
	if err != nil {
		s.logger.Error(ctx, "session marker not cleared", "error", err)
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

// RestoreSession reads the marker and reports the user it names. A marker
// that is absent, unreadable, tampered with, expired or names a user that no
// longer exists reads as no session; unusable markers are erased.
func (s *AuthService) RestoreSession(ctx context.Context) (int64, bool) {
	user, ok := s.RestoreUser(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

// RestoreUser is RestoreSession returning the whole user record. The login
// saved next to the token must still belong to that user ID.
func (s *AuthService) RestoreUser(ctx context.Context) (*models.User, bool) {
	repo := markers.NewSQLiteRepository(s.local)
	raw, err := repo.Load(ctx, common.SessionTokenKey)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "session marker unreadable", "error", err)
		}
		return nil, false
	}

	userID, err := auth.GetUserIDFromToken(string(raw), s.secret)
	if err != nil {
		s.logger.Info(ctx, "discarding session marker", "reason", err)
		s.discardMarker(ctx)
		return nil, false
	}

	user, err := s.LookupUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info(ctx, "session marker names a missing user", "user_id", userID)
			s.discardMarker(ctx)
		} else {
			s.logger.Warn(ctx, "session restore skipped", "user_id", userID, "error", err)
		}
		return nil, false
	}

	login, err := repo.Load(ctx, common.SessionLoginKey)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Warn(ctx, "session marker unreadable", "error", err)
		return nil, false
	}
	if err != nil || string(login) != user.Login {
		s.logger.Info(ctx, "session marker login does not match user", "user_id", userID)
		s.discardMarker(ctx)
		return nil, false
	}

	s.logger.Info(ctx, "session restored", "user_id", userID)
	return user, true
}

func (s *AuthService) discardMarker(ctx context.Context) {
	if err := s.ClearSession(ctx); err != nil {
		s.logger.Warn(ctx, "stale session marker left in place", "error", err)
	}
}
