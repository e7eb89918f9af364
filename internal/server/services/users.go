package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memoryengine/backend/internal/common"
	"github.com/memoryengine/backend/internal/dbx"
	"github.com/memoryengine/backend/internal/server/auth"
	"github.com/memoryengine/backend/internal/server/config"
	"github.com/memoryengine/backend/internal/server/models"
	"github.com/memoryengine/backend/internal/server/repositories/repomanager"
)

const minPasswordLength = 8

// TokenPair bundles a short-lived access token and a long-lived refresh
// token, plus the access token's lifetime in seconds for clients.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// ProfileUpdate describes a partial profile change; nil fields are left
// untouched.
type ProfileUpdate struct {
	Name     *string
	Username *string
}

// UserService provides registration, login, token refresh, profile
// updates, and the admin account operations.
type UserService struct {
	db                           *sql.DB
	rm                           repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		rm:                           rm,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates an account and returns it with a fresh token pair.
// The very first account in an empty system becomes an admin; the
// check-then-set runs inside the same transaction as the insert. Under
// truly concurrent first registrations that read is still racy; the unique
// email index is the final backstop and the duplicate loser sees a
// conflict.
func (s *UserService) Register(ctx context.Context, email, password, name, username string) (*models.User, *TokenPair, error) {
	user, err := s.createUser(ctx, email, password, name, username, "")
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// AdminCreateUser provisions an account with an explicit role.
func (s *UserService) AdminCreateUser(ctx context.Context, email, password, name, username string, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, role)
	}
	return s.createUser(ctx, email, password, name, username, role)
}

func (s *UserService) createUser(ctx context.Context, email, password, name, username string, role models.UserRole) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.ToLower(strings.TrimSpace(username))
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return fmt.Errorf("%w: email is already registered", common.ErrorConflict)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if username != "" {
			taken, err := repo.UsernameTaken(ctx, username, "")
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: username is already taken", common.ErrorConflict)
			}
		}

		effectiveRole := role
		if effectiveRole == "" {
			effectiveRole = models.RoleUser
			count, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			if count == 0 {
				effectiveRole = models.RoleAdmin
			}
		}

		now := time.Now().UTC()
		user = &models.User{
			ID:           uuid.NewString(),
			Email:        email,
			Name:         name,
			Username:     username,
			PasswordHash: hash,
			Role:         effectiveRole,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, err := repo.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user with a fresh token
// pair. Unknown email and wrong password are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.rm.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token and mints a new access token for its
// subject. Any token or lookup failure is ErrorUnauthorized.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, int, error) {
	subject, err := auth.ParseToken(refreshToken, auth.TokenKindRefresh, s.jwtSecret)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
	}

	if _, err := s.rm.Users(s.db).GetByID(ctx, subject); err != nil {
		return "", 0, fmt.Errorf("%w: invalid refresh token", common.ErrorUnauthorized)
	}

	access, err := auth.GenerateToken(subject, auth.TokenKindAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", 0, common.ErrorInternal
	}
	return access, int(s.accessTokenValidityDuration.Seconds()), nil
}

// GetByID loads one user.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.rm.Users(s.db).GetByID(ctx, id)
}

// ResolveAccessToken verifies an access token and returns its user. Used
// by the HTTP middleware.
func (s *UserService) ResolveAccessToken(ctx context.Context, token string) (*models.User, error) {
	subject, err := auth.ParseToken(token, auth.TokenKindAccess, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or missing authentication token", common.ErrorUnauthorized)
	}

	user, err := s.rm.Users(s.db).GetByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or missing authentication token", common.ErrorUnauthorized)
	}
	return user, nil
}

// UpdateProfile changes name and/or username. An empty username clears it.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		var err error
		user, err = repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if upd.Username != nil {
			username := strings.ToLower(strings.TrimSpace(*upd.Username))
			if username != "" {
				taken, err := repo.UsernameTaken(ctx, username, userID)
				if err != nil {
					return err
				}
				if taken {
					return fmt.Errorf("%w: username is already taken", common.ErrorConflict)
				}
			}
			user.Username = username
		}

		if upd.Name != nil {
			user.Name = strings.TrimSpace(*upd.Name)
		}

		user.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all accounts ordered by email (admin surface).
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.rm.Users(s.db).List(ctx)
}

// DeleteUser removes an account and, via cascades, everything it owns or
// participates in. Self-deletion is always refused, as is deleting the
// last remaining admin.
func (s *UserService) DeleteUser(ctx context.Context, callerID, targetID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		target, err := repo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}

		if target.ID == callerID {
			return fmt.Errorf("%w: you cannot delete your own account", common.ErrorValidation)
		}

		if target.Role == models.RoleAdmin {
			admins, err := repo.CountByRole(ctx, models.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("%w: cannot delete the last admin user", common.ErrorValidation)
			}
		}

		return repo.Delete(ctx, targetID)
	})
}

func (s *UserService) issueTokenPair(userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, auth.TokenKindAccess, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := auth.GenerateToken(userID, auth.TokenKindRefresh, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTokenValidityDuration.Seconds()),
	}, nil
}
