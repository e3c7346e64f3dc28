package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatehouselabs/gatehouse/internal/auth/domain"
	"github.com/gatehouselabs/gatehouse/internal/auth/store"
	"github.com/gatehouselabs/gatehouse/pkg/cryptox"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers get one error value so responses cannot be used
	// to probe which addresses exist.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrEmailExists reports a signup against an already registered address.
	ErrEmailExists = errors.New("email_already_exists")

	// ErrUserNotFound reports a management operation against a missing id.
	ErrUserNotFound = errors.New("user_not_found")
)

// DefaultMaxConcurrentHashes bounds how many argon2 derivations may run at
// once. Each derivation pins tens of MiB, so an unbounded burst of signups
// or logins would exhaust memory before it exhausted CPU.
const DefaultMaxConcurrentHashes = 4

// UserService owns the user lifecycle: signup, credential verification and
// the privileged management operations.
type UserService struct {
	store     store.Store
	validator *CredentialValidator

	hashSem chan struct{}
}

func NewUserService(st store.Store, validator *CredentialValidator, maxConcurrentHashes int) *UserService {
	if maxConcurrentHashes <= 0 {
		maxConcurrentHashes = DefaultMaxConcurrentHashes
	}
	return &UserService{
		store:     st,
		validator: validator,
		hashSem:   make(chan struct{}, maxConcurrentHashes),
	}
}

// Signup validates the credentials, hashes the password and creates the
// user with the default permission set. Whatever permissions a client may
// have asked for are never consulted, so signup cannot grant privileges.
// The returned user carries no password hash.
func (s *UserService) Signup(ctx context.Context, email, name, password string) (domain.User, error) {
	if err := s.validator.Validate(email, password); err != nil {
		return domain.User{}, err
	}

	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Users().CreateUser(ctx, domain.User{
		Email:        NormalizeEmail(email),
		Name:         name,
		PasswordHash: hash,
		Permissions:  domain.DefaultSignupPermissions(),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailExists
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// VerifyCredentials resolves the email and checks the password against the
// stored hash. Both failure modes collapse into ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.verifyPassword(ctx, password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// Profile reduces a user to the shape that goes into a token. The
// permission slice is copied so later mutation of the user cannot reach
// into an already issued snapshot.
func (s *UserService) Profile(user domain.User) domain.Profile {
	permissions := make([]string, len(user.Permissions))
	copy(permissions, user.Permissions)

	return domain.Profile{
		UID:         user.ID,
		Permissions: permissions,
	}
}

// GetUser fetches a single user by id, hash stripped.
func (s *UserService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	user, err := s.store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ListUsers returns users matching the filter, hashes stripped.
func (s *UserService) ListUsers(ctx context.Context, filter store.UserFilter) ([]domain.User, error) {
	users, err := s.store.Users().ListUsers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// CountUsers returns how many users match the filter.
func (s *UserService) CountUsers(ctx context.Context, filter store.UserFilter) (int64, error) {
	count, err := s.store.Users().CountUsers(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// ReplaceUser overwrites the mutable profile fields of an existing user.
// The permission set must come from the closed catalogue; the password hash
// is never touched here.
func (s *UserService) ReplaceUser(ctx context.Context, user domain.User) (domain.User, error) {
	if err := s.validator.ValidateEmail(user.Email); err != nil {
		return domain.User{}, err
	}
	for _, p := range user.Permissions {
		if !domain.IsKnownPermission(p) {
			return domain.User{}, fmt.Errorf("%w: unknown permission %q", ErrValidation, p)
		}
	}
	user.Email = NormalizeEmail(user.Email)

	if err := s.store.Users().ReplaceUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrUserNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, ErrEmailExists
		}
		return domain.User{}, fmt.Errorf("replace user: %w", err)
	}

	updated, err := s.store.Users().GetUserByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("reload user: %w", err)
	}

	updated.PasswordHash = ""
	return updated, nil
}

// ChangePassword re-hashes a new plaintext and swaps the stored hash. This
// is the only path that ever mutates a password hash.
func (s *UserService) ChangePassword(ctx context.Context, id int64, password string) error {
	if err := s.validator.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := s.hashPassword(ctx, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.Users().UpdatePasswordHash(ctx, id, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// DeleteUser removes a user by id.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.Users().DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *UserService) hashPassword(ctx context.Context, password string) (string, error) {
	if err := s.acquireHashSlot(ctx); err != nil {
		return "", err
	}
	defer s.releaseHashSlot()
	return cryptox.HashPassword(password)
}

func (s *UserService) verifyPassword(ctx context.Context, password, encodedHash string) error {
	if err := s.acquireHashSlot(ctx); err != nil {
		return err
	}
	defer s.releaseHashSlot()
	return cryptox.VerifyPassword(password, encodedHash)
}

func (s *UserService) acquireHashSlot(ctx context.Context) error {
	select {
	case s.hashSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *UserService) releaseHashSlot() {
	<-s.hashSem
}
