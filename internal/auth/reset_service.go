// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/samber/oops"
)

// PasswordResetService issues and consumes password-reset tokens.
type PasswordResetService struct {
	users  UserRepository
	signer *ResetTokenSigner
	hasher PasswordHasher
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(users UserRepository, signer *ResetTokenSigner, hasher PasswordHasher) (*PasswordResetService, error) {
	if users == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("user repository cannot be nil")
	}
	if signer == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("token signer cannot be nil")
	}
	if hasher == nil {
		return nil, oops.Code("RESET_SERVICE_INVALID").Errorf("password hasher cannot be nil")
	}
	return &PasswordResetService{users: users, signer: signer, hasher: hasher}, nil
}

// RequestReset issues a reset token for the account with the given email.
// Returns the plaintext token for delivery (sending mail is NOT this
// service's job). If no account matches, returns success with an empty
// token to prevent email enumeration.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Return success with empty token to prevent email enumeration
			return "", nil
		}
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := s.signer.Issue(user, time.Now())
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	return token, nil
}

// VerifyToken verifies a reset token and returns the user it was issued
// for. It fails, always with RESET_TOKEN_INVALID, when the signature is
// bad, the token has expired, the embedded salt fragment no longer
// matches the user's current password hash, or the user is gone.
func (s *PasswordResetService) VerifyToken(ctx context.Context, token string) (*User, error) {
	claims, userID, err := s.signer.Decode(token, time.Now())
	if err != nil {
		return nil, oops.Code("RESET_TOKEN_INVALID").Wrap(ErrInvalidResetToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("RESET_TOKEN_INVALID").Wrap(ErrInvalidResetToken)
		}
		return nil, oops.Code("RESET_VERIFY_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	fragment, err := SaltFragment(user.PasswordHash)
	if err != nil {
		return nil, oops.Code("RESET_VERIFY_FAILED").
			With("operation", "extract salt fragment").
			Wrap(err)
	}
	if subtle.ConstantTimeCompare([]byte(fragment), []byte(claims.SaltFragment)) != 1 {
		// Password changed since the token was issued.
		return nil, oops.Code("RESET_TOKEN_INVALID").Wrap(ErrInvalidResetToken)
	}

	return user, nil
}

// ResetPassword sets a new password for the account a valid token was
// issued to. The new password must match its confirmation. A successful
// reset changes the password hash, which invalidates every other
// outstanding token for the user.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, password, confirmation string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if password != confirmation {
		return oops.Code("AUTH_PASSWORD_MISMATCH").
			Errorf("password confirmation doesn't match password")
	}

	user, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err // Already has appropriate error code
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	return nil
}
