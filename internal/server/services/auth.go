// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, refresh-token rotation, and
// logout on top of the user and session repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avelkers/carwash/internal/common"
	"github.com/avelkers/carwash/internal/dbx"
	"github.com/avelkers/carwash/internal/server/auth"
	"github.com/avelkers/carwash/internal/server/models"
	"github.com/avelkers/carwash/internal/server/password"
	"github.com/avelkers/carwash/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
// - Register: create accounts
// - Login: verify credentials and mint a token pair
// - Refresh: rotate refresh sessions and mint a new pair
// - Logout: revoke the presented session (idempotent)
// - Me: resolve the current account from an access-token subject
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	hasher      *password.Hasher
}

// NewAuthService constructs an AuthService using repositories, the token
// codec, and the password hasher.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, hasher *password.Hasher) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       codec,
		hasher:      hasher,
	}
}

// Register creates a new active account with role "user". Duplicate email or
// phone yields ErrEmailTaken / ErrPhoneTaken. The checks and the insert run
// in one transaction; the unique constraints backstop concurrent registrations.
func (s *AuthService) Register(ctx context.Context, fullname, email, phone, plainPassword string) (*models.User, error) {
	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	user := &models.User{
		FullName:     fullname,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrEmailTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking email: %v", err)
		}

		if _, err := repo.GetByPhone(ctx, phone); err == nil {
			return common.ErrPhoneTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking phone: %v", err)
		}

		created, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and, on success, mints a token pair and persists
// the refresh session. Unknown email and wrong password collapse to the same
// ErrorUnauthorized so responses do not reveal which check failed. Disabled
// accounts are rejected up front rather than at their first refresh.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !s.hasher.Verify(user.PasswordHash, plainPassword) {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrUserDisabled
	}

	return s.generateTokenPair(ctx, user, s.db)
}

// Refresh validates a refresh token, rotates its session transactionally, and
// returns a fresh TokenPair. The presented jti is revoked with a
// compare-and-set, so of two concurrent calls with the same token exactly one
// wins; the loser fails with ErrSessionRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.decodeRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.repomanager.Sessions(s.db).FindByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrSessionRevoked
		}
		return nil, fmt.Errorf("error searching refresh session: %v", err)
	}
	if session.Revoked {
		return nil, common.ErrSessionRevoked
	}
	if session.ExpiredAt(time.Now()) {
		return nil, common.ErrSessionExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserDisabled
		}
		return nil, fmt.Errorf("error loading user: %v", err)
	}
	if !user.IsActive {
		return nil, common.ErrUserDisabled
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		flipped, err := s.repomanager.Sessions(tx).Revoke(ctx, claims.ID)
		if err != nil {
			return fmt.Errorf("error revoking refresh session: %v", err)
		}
		if !flipped {
			// Another refresh with the same token already rotated it.
			return common.ErrSessionRevoked
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes the presented refresh session. Revoking an unknown or
// already-revoked session is success: logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.decodeRefresh(refreshToken)
	if err != nil {
		return err
	}

	if _, err := s.repomanager.Sessions(s.db).Revoke(ctx, claims.ID); err != nil {
		return fmt.Errorf("error revoking refresh session: %v", err)
	}
	return nil
}

// Me returns the account for the given access-token subject.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %v", err)
	}
	return user, nil
}

// --- helpers below ---

func (s *AuthService) decodeRefresh(refreshToken string) (*auth.Claims, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenType != auth.TypeRefresh {
		return nil, common.ErrNotRefresh
	}
	return claims, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	sub := strconv.FormatInt(user.ID, 10)

	access, err := s.codec.IssueAccess(sub, user.Role)
	if err != nil {
		return nil, common.ErrorInternal
	}

	jti := auth.NewJTI()
	refresh, err := s.codec.IssueRefresh(sub, jti)
	if err != nil {
		return nil, common.ErrorInternal
	}

	expiresAt := time.Now().Add(s.codec.RefreshTTL())
	if err := s.repomanager.Sessions(tx).Create(ctx, user.ID, jti, expiresAt); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
