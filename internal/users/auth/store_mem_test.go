// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/opsboard/internal/platform/apperr"
	"github.com/taibuivan/opsboard/internal/platform/sec"
)

// In-memory repository fakes. They implement the same contracts as the
// Postgres/Redis repositories, including the error shapes, so service and
// handler tests exercise real control flow without a database.

type memUserRepository struct {
	mu    sync.Mutex
	users map[string]*User

	// failWith, when set, is returned by every method to simulate outages.
	failWith error
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[string]*User)}
}

func (repository *memUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return repository.failWith
	}

	for _, existing := range repository.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict(duplicateCredentialMessage)
		}
	}

	stored := *user
	repository.users[user.ID] = &stored
	return nil
}

func (repository *memUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return nil, repository.failWith
	}

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	found := *user
	return &found, nil
}

func (repository *memUserRepository) FindByIdentifier(_ context.Context, identifier string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return nil, repository.failWith
	}

	// Exact match on both fields, same as the SQL `username = $1 OR
	// email = $1` in the Postgres repository.
	for _, user := range repository.users {
		if user.Username == identifier || user.Email == identifier {
			found := *user
			return &found, nil
		}
	}

	return nil, apperr.NotFound("User")
}

func (repository *memUserRepository) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return false, repository.failWith
	}

	for _, user := range repository.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repository *memUserRepository) UpdateLastLogin(_ context.Context, userID string, loginTime time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return repository.failWith
	}

	if user, ok := repository.users[userID]; ok {
		user.LastLoginAt = &loginTime
	}
	return nil
}

// setRole mutates a stored user's role directly, simulating an admin change.
func (repository *memUserRepository) setRole(userID string, role sec.UserRole) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if user, ok := repository.users[userID]; ok {
		user.Role = role
	}
}

// setActive mutates a stored user's activation flag directly.
func (repository *memUserRepository) setActive(userID string, active bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if user, ok := repository.users[userID]; ok {
		user.IsActive = active
	}
}

type memSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*Session

	// now supplies the clock for expiry filtering, mirroring NOW() in SQL.
	now func() time.Time

	failWith error
}

func newMemSessionRepository(now func() time.Time) *memSessionRepository {
	return &memSessionRepository{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

func (repository *memSessionRepository) Create(_ context.Context, session *Session) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return repository.failWith
	}

	stored := *session
	repository.sessions[session.ID] = &stored
	return nil
}

func (repository *memSessionRepository) FindByID(_ context.Context, id string) (*Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return nil, repository.failWith
	}

	session, ok := repository.sessions[id]
	if !ok || session.IsExpired(repository.now()) {
		return nil, apperr.NotFound("Session")
	}

	found := *session
	return &found, nil
}

func (repository *memSessionRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return repository.failWith
	}

	delete(repository.sessions, id)
	return nil
}

func (repository *memSessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return 0, repository.failWith
	}

	var removed int64
	for id, session := range repository.sessions {
		if session.IsExpired(repository.now()) {
			delete(repository.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (repository *memSessionRepository) count() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.sessions)
}

type memThrottleRepository struct {
	mu       sync.Mutex
	counters map[string]int64
	failWith error
}

func newMemThrottleRepository() *memThrottleRepository {
	return &memThrottleRepository{counters: make(map[string]int64)}
}

func (repository *memThrottleRepository) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return 0, repository.failWith
	}

	repository.counters[key]++
	return repository.counters[key], nil
}

func (repository *memThrottleRepository) Reset(_ context.Context, key string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if repository.failWith != nil {
		return repository.failWith
	}

	delete(repository.counters, key)
	return nil
}
