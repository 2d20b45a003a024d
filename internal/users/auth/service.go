// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
	"github.com/taibuivan/opsboard/pkg/pointer"
	"github.com/taibuivan/opsboard/pkg/uuid"
)

// # Service

// Service implements the authentication gateway use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository     UserRepository
	sessionRepository  SessionRepository
	throttleRepository ThrottleRepository
	sessionTTL         time.Duration
	logger             *slog.Logger

	// now is the injected time source; tests replace it to drive expiry
	// boundaries deterministically.
	now func() time.Time
}

// NewService constructs a new auth [Service] with necessary dependencies.
//
// sessionTTL <= 0 falls back to [DefaultSessionTTL].
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	throttleRepo ThrottleRepository,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{
		userRepository:     userRepo,
		sessionRepository:  sessionRepo,
		throttleRepository: throttleRepo,
		sessionTTL:         sessionTTL,
		logger:             logger,
		now:                time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new operator account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The existence pre-check gives a fast, client-friendly Conflict;
the database's unique constraints remain authoritative under concurrent
registration, so a race still fails with the same Conflict and persists
exactly one row.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists), StoreUnavailable, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Advisory uniqueness check. The Conflict message never reveals whether
	// the username or the email collided.
	taken, err := service.userRepository.ExistsByUsernameOrEmail(context, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict(duplicateCredentialMessage)
	}

	// Derive the stored credential. A fresh salt per account prevents
	// rainbow-table reuse across users sharing a password.
	salt, err := sec.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("auth_service_salt_failed: %w", err)
	}

	hash, err := sec.HashPassword(input.Password, salt)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Salt:         salt,
		Role:         sec.RoleUser,
		IsActive:     true,
		CreatedAt:    service.now(),
	}

	// Persist the user. A concurrent duplicate surfaces here as Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Can be Username or Email
	Password   string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

/*
Login validates user credentials and issues an opaque session token.

Description: Unknown identifiers, wrong passwords, and deactivated accounts
all produce the identical Unauthorized error, so the endpoint cannot be used
to probe which accounts exist. Store outages propagate as StoreUnavailable
instead — an unreachable store is never "wrong password".

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session
  - err: Unauthorized, RateLimited, StoreUnavailable, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {

	// Throttle by identifier. The counter lives in Redis with its own TTL;
	// if the throttle store is down we log and continue — throttling is a
	// hardening layer, not the authentication itself.
	attempts, err := service.throttleRepository.Incr(context, input.Identifier, LoginThrottleTTL)
	if err != nil {
		service.logger.Warn("login_throttle_unavailable", slog.Any("error", err))
	} else if attempts > MaxLoginAttempts {
		return nil, apperr.RateLimited(int(LoginThrottleTTL.Seconds()))
	}

	user, err := service.userRepository.FindByIdentifier(context, input.Identifier)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			// Burn a hash derivation so that "unknown user" and "wrong
			// password" take comparable time.
			service.burnVerification(input.Password)
			return nil, apperr.Unauthorized(invalidCredentialMessage)
		}
		return nil, err
	}

	// Deactivated accounts fail exactly like bad credentials.
	if !user.IsActive {
		service.burnVerification(input.Password)
		return nil, apperr.Unauthorized(invalidCredentialMessage)
	}

	// Constant-time comparison of the derived hash against the stored one.
	if !sec.VerifyPassword(input.Password, user.Salt, user.PasswordHash) {
		return nil, apperr.Unauthorized(invalidCredentialMessage)
	}

	// Issue the opaque session token.
	token, err := sec.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	issuedAt := service.now()
	session := &Session{
		ID:        token,
		UserID:    user.ID,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(service.sessionTTL),
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, err
	}

	// Best-effort side effects: neither may fail the login.
	if err := service.throttleRepository.Reset(context, input.Identifier); err != nil {
		service.logger.Warn("login_throttle_reset_failed", slog.Any("error", err))
	}
	if err := service.userRepository.UpdateLastLogin(context, user.ID, issuedAt); err != nil {
		service.logger.Warn("last_login_update_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	} else {
		// Keep the entity we return aligned with what was just persisted.
		user.LastLoginAt = pointer.To(issuedAt)
	}

	return &LoginSession{
		Token:     session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// burnVerification runs a full PBKDF2 derivation against a throwaway salt to
// equalize response timing on the failure paths that skip real verification.
func (service *Service) burnVerification(password string) {
	salt, err := sec.GenerateSalt()
	if err != nil {
		return
	}
	_, _ = sec.HashPassword(password, salt)
}

/*
Logout destroys the session identified by the token.

Description: Idempotent — logging out an expired, already-deleted, or never
issued token succeeds silently. Only a store outage is reported.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: StoreUnavailable or execution failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	if token == "" {
		return nil
	}
	return service.sessionRepository.Delete(context, token)
}

// # Session Resolution

/*
ResolveSession resolves an opaque session token into its owning user.

Description: The single operation every protected request runs. Absent,
expired, and revoked tokens are indistinguishable to the caller; the owning
user is re-fetched on every call so role changes and deactivations take
effect without re-login. All ambiguity fails closed.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: The session's owner
  - err: Unauthorized or StoreUnavailable
*/
func (service *Service) ResolveSession(context context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	session, err := service.sessionRepository.FindByID(context, token)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "STORE_UNAVAILABLE" {
			return nil, err
		}
		return nil, apperr.Unauthorized("Authentication required")
	}

	// The store query already filters expired rows; re-check against the
	// service clock so the invariant holds with any repository implementation.
	if session.IsExpired(service.now()) {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "STORE_UNAVAILABLE" {
			return nil, err
		}
		// A live token for a deleted user resolves to nothing.
		return nil, apperr.Unauthorized("Authentication required")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return user, nil
}

/*
GetUser returns the account with the given ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated account entity
  - err: NotFound or StoreUnavailable
*/
func (service *Service) GetUser(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

/*
PurgeExpiredSessions removes sessions that have passed their expiry.

Description: Operational cleanup invoked by the task scheduler. Lazy expiry
already guarantees correctness; this merely reclaims storage.

Parameters:
  - context: context.Context

Returns:
  - int64: Number of sessions removed
  - err: Cleanup failures
*/
func (service *Service) PurgeExpiredSessions(context context.Context) (int64, error) {
	removed, err := service.sessionRepository.DeleteExpired(context)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		service.logger.Info("expired_sessions_purged", slog.Int64("count", removed))
	}
	return removed, nil
}
