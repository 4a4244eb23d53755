// Package users contains the account-side business logic: registration,
// login, token refresh, and profile updates.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"messagewall/internal/common"
	"messagewall/internal/dbx"
	"messagewall/internal/server/auth"
	"messagewall/internal/server/config"
	"messagewall/internal/server/records"
	"messagewall/internal/server/repomanager"
	"messagewall/internal/server/sessions"
)

// MinPasswordLen mirrors the signup form's client-side rule.
const MinPasswordLen = 6

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service provides authentication-related operations:
//   - Register: create the user's record (message fields empty)
//   - Login: verify credentials and mint tokens
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - UpdateProfile: partial identity update with session broadcast
type Service struct {
	db                           *sql.DB
	repos                        repomanager.RepositoryManager
	sessions                     *sessions.Context
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, sess *sessions.Context, cfg *config.Config) *Service {
	return &Service{
		db:                           db,
		repos:                        rm,
		sessions:                     sess,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new record for the user. The email-uniqueness check and
// the insert run in one transaction; concurrent signups that both pass the
// check hit the UNIQUE constraint, which the repository maps to ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, password string) (*records.Record, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", common.ErrValidation)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	var created *records.Record
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Records(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrEmailTaken
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		created, err = repo.Create(ctx, &records.Record{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies credentials and returns the record plus a fresh token pair.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*records.Record, *TokenPair, error) {
	repo := s.repos.Records(s.db)

	rec, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized
		}
		return nil, nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.ErrUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, rec.ID, s.db)
	if err != nil {
		return nil, nil, common.ErrInternal
	}

	s.sessions.Set(rec)

	return rec, pair, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repos.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repos.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token and drops the user's session state.
func (s *Service) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.repos.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
			return err
		}
	}
	s.sessions.Clear(userID)
	return nil
}

// GetByID resolves a record, preferring the session cache.
func (s *Service) GetByID(ctx context.Context, id string) (*records.Record, error) {
	if rec := s.sessions.Get(id); rec != nil {
		return rec, nil
	}

	rec, err := s.repos.Records(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.sessions.Set(rec)
	return rec, nil
}

// UpdateProfile applies a partial identity update. Empty fields keep their
// stored values. On success the session context broadcasts the new record so
// display components re-read it.
func (s *Service) UpdateProfile(ctx context.Context, id, name, avatarURL, password string) (*records.Record, error) {
	var hash string
	if password != "" {
		if len(password) < MinPasswordLen {
			return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLen)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, common.ErrInternal
		}
		hash = string(h)
	}

	rec, err := s.repos.Records(s.db).UpdateProfile(ctx, id, name, avatarURL, hash)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	s.sessions.Set(rec)

	return rec, nil
}

func (s *Service) generateTokenPair(ctx context.Context, userID string, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}

	if err := s.repos.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
