// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// User represents a customer account.
type User struct {
	ID           ulid.ULID
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail canonicalizes an email address for comparison and
// storage. Every read and write path must pass addresses through this
// function before touching the repository; uniqueness is defined over
// the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that a normalized email address is usable.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email address cannot be blank")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return oops.Code("AUTH_INVALID_EMAIL").Errorf("email address is invalid")
	}
	return nil
}

// UserRepository manages user persistence. All email lookups expect
// addresses already normalized via NormalizeEmail.
type UserRepository interface {
	// Create stores a new user. Returns ErrEmailTaken if the email
	// address is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by normalized email address.
	// Returns ErrNotFound if no user has the given address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePassword updates only the password hash for a user.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// Delete removes a user. Sessions are removed by the database
	// cascade on the foreign key.
	Delete(ctx context.Context, id ulid.ULID) error
}
