// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, and
// minting access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/dbx"
	"github.com/facturio/facturio/internal/logging"
	"github.com/facturio/facturio/internal/server/auth"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/facturio/facturio/internal/server/repositories/repomanager"
)

// dummyPasswordHash is verified against when the username is unknown, so that
// login takes roughly the same time whether or not the account exists.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$c29tZXNhbHRzb21lc2FsdA$RdescudvJCsgt3ub+b+dWRWJTmaaJObG"

// UserService provides authentication and account management:
// - Register: create users
// - Login: verify credentials and mint an access token
// - List/SetActive/SetRole: administrative account operations
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenCodec
	logger      logging.Logger
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens *auth.TokenCodec, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates a new user account with the requested role. Duplicate
// usernames and emails yield ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		// a concurrent register can win the unique constraint between the
		// checks above and the insert; re-check so that still reads as a
		// conflict, and let genuine failures surface as such
		if _, lookupErr := repo.GetByUsername(ctx, username); lookupErr == nil {
			return nil, common.ErrorAlreadyExists
		}
		if _, lookupErr := repo.GetByEmail(ctx, email); lookupErr == nil {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and returns a signed access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller; disabled
// accounts are reported separately, but only after the password checks out.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same hashing cost as a real verification
			s.hasher.Verify(password, dummyPasswordHash)
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}
	if !user.IsActive {
		return "", common.ErrorUserDisabled
	}

	s.maybeRehash(ctx, user, password)

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// maybeRehash upgrades the stored hash when its parameters have drifted from
// the current defaults. Failure here never fails the login.
func (s *UserService) maybeRehash(ctx context.Context, user *models.User, password string) {
	if !s.hasher.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return
	}
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Warn(ctx, "password rehash failed", "user", user.Username, "error", err)
	}
}

// GetByUsername loads a single account.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// List returns a page of accounts.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx, skip, limit)
}

// SetActive enables or disables an account and returns the updated record.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	if err := repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// SetRole changes an account's role and returns the updated record.
func (s *UserService) SetRole(ctx context.Context, id int64, role models.Role) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	if err := repo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// CreateAdmin provisions an administrator account directly. Used by the
// bootstrap CLI, not exposed over HTTP. The uniqueness check and the insert
// run in one transaction.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	var user *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByUsername(ctx, username); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}
		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrorAlreadyExists
		} else if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}

		var createErr error
		user, createErr = repo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			IsActive:     true,
		})
		return createErr
	}); err != nil {
		return nil, err
	}

	return user, nil
}
