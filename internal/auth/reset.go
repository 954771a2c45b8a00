// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Reset token configuration.
const (
	ResetTokenPurpose = "password_reset"
	ResetTokenExpiry  = 15 * time.Minute
	minSigningKeyLen  = 32
)

// ErrInvalidResetToken is returned for any reset token that fails
// verification. The cause (bad signature, expiry, stale salt fragment,
// missing user) is deliberately not distinguished to the caller.
var ErrInvalidResetToken = errors.New("invalid reset token")

// ResetClaims is the signed payload of a password-reset token.
type ResetClaims struct {
	Purpose      string `json:"purpose"`
	UserID       string `json:"user_id"`
	ExpiresAt    int64  `json:"expires_at"`
	SaltFragment string `json:"salt_fragment"`
}

// ResetTokenSigner issues and verifies stateless password-reset tokens.
// A token is base64url(payload) + "." + base64url(HMAC-SHA256(payload))
// under a process-wide secret. Nothing is persisted: binding the salt
// fragment of the current password hash into the payload means every
// outstanding token becomes invalid the moment the password changes.
type ResetTokenSigner struct {
	secret []byte
}

// NewResetTokenSigner creates a signer from the process secret key.
func NewResetTokenSigner(secret []byte) (*ResetTokenSigner, error) {
	if len(secret) < minSigningKeyLen {
		return nil, oops.Code("RESET_KEY_TOO_SHORT").
			With("min_bytes", minSigningKeyLen).
			Errorf("signing secret must be at least %d bytes", minSigningKeyLen)
	}
	return &ResetTokenSigner{secret: secret}, nil
}

// Issue produces a reset token for the user, valid for ResetTokenExpiry
// from now and bound to the user's current password-hash salt.
func (s *ResetTokenSigner) Issue(user *User, now time.Time) (string, error) {
	fragment, err := SaltFragment(user.PasswordHash)
	if err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "extract salt fragment").
			Wrap(err)
	}

	claims := ResetClaims{
		Purpose:      ResetTokenPurpose,
		UserID:       user.ID.String(),
		ExpiresAt:    now.Add(ResetTokenExpiry).Unix(),
		SaltFragment: fragment,
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", oops.Code("RESET_ISSUE_FAILED").
			With("operation", "marshal claims").
			Wrap(err)
	}

	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(s.sign(payload)), nil
}

// Decode verifies the token's signature, structure, purpose, and expiry
// and returns its claims alongside the parsed user ID. It does NOT
// check the salt fragment against stored state; that is the reset
// service's job. Any failure returns ErrInvalidResetToken.
func (s *ResetTokenSigner) Decode(token string, now time.Time) (*ResetClaims, ulid.ULID, error) {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}

	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(payloadPart)
	if err != nil {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}
	sig, err := enc.DecodeString(sigPart)
	if err != nil {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}
	if !hmac.Equal(sig, s.sign(payload)) {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}

	var claims ResetClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}
	if claims.Purpose != ResetTokenPurpose {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}
	if now.Unix() > claims.ExpiresAt {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}

	userID, err := ulid.Parse(claims.UserID)
	if err != nil {
		return nil, ulid.ULID{}, ErrInvalidResetToken
	}

	return &claims, userID, nil
}

func (s *ResetTokenSigner) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
