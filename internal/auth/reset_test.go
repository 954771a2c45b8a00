// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func testUser(t *testing.T) *User {
	t.Helper()
	hash, err := NewArgon2idHasher().Hash("secret123")
	require.NoError(t, err)
	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make(),
		EmailAddress: "dave@example.com",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestNewResetTokenSigner(t *testing.T) {
	t.Run("accepts 32-byte key", func(t *testing.T) {
		signer, err := NewResetTokenSigner(testSigningKey)
		require.NoError(t, err)
		assert.NotNil(t, signer)
	})

	t.Run("rejects short key", func(t *testing.T) {
		_, err := NewResetTokenSigner([]byte("too-short"))
		require.Error(t, err)
	})
}

func TestResetTokenSigner_RoundTrip(t *testing.T) {
	signer, err := NewResetTokenSigner(testSigningKey)
	require.NoError(t, err)
	user := testUser(t)
	now := time.Now()

	token, err := signer.Issue(user, now)
	require.NoError(t, err)

	claims, userID, err := signer.Decode(token, now)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, ResetTokenPurpose, claims.Purpose)
	assert.Equal(t, now.Add(ResetTokenExpiry).Unix(), claims.ExpiresAt)

	fragment, err := SaltFragment(user.PasswordHash)
	require.NoError(t, err)
	assert.Equal(t, fragment, claims.SaltFragment)
}

func TestResetTokenSigner_Expiry(t *testing.T) {
	signer, err := NewResetTokenSigner(testSigningKey)
	require.NoError(t, err)
	user := testUser(t)
	issued := time.Now()

	token, err := signer.Issue(user, issued)
	require.NoError(t, err)

	t.Run("valid just inside the window", func(t *testing.T) {
		_, _, err := signer.Decode(token, issued.Add(ResetTokenExpiry-time.Second))
		require.NoError(t, err)
	})

	t.Run("invalid one second past the window", func(t *testing.T) {
		_, _, err := signer.Decode(token, issued.Add(ResetTokenExpiry+time.Second))
		require.ErrorIs(t, err, ErrInvalidResetToken)
	})
}

func TestResetTokenSigner_Tampering(t *testing.T) {
	signer, err := NewResetTokenSigner(testSigningKey)
	require.NoError(t, err)
	user := testUser(t)
	now := time.Now()

	token, err := signer.Issue(user, now)
	require.NoError(t, err)

	t.Run("modified payload rejected", func(t *testing.T) {
		payloadPart, sigPart, ok := strings.Cut(token, ".")
		require.True(t, ok)

		payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
		require.NoError(t, err)
		var claims ResetClaims
		require.NoError(t, json.Unmarshal(payload, &claims))
		claims.ExpiresAt = now.Add(24 * time.Hour).Unix()
		forged, err := json.Marshal(claims)
		require.NoError(t, err)

		tampered := base64.RawURLEncoding.EncodeToString(forged) + "." + sigPart
		_, _, err = signer.Decode(tampered, now)
		require.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("token signed with a different key rejected", func(t *testing.T) {
		other, err := NewResetTokenSigner([]byte("ffffffffffffffffffffffffffffffff"))
		require.NoError(t, err)
		foreign, err := other.Issue(user, now)
		require.NoError(t, err)

		_, _, err = signer.Decode(foreign, now)
		require.ErrorIs(t, err, ErrInvalidResetToken)
	})

	t.Run("wrong purpose rejected", func(t *testing.T) {
		claims := ResetClaims{
			Purpose:      "email_confirmation",
			UserID:       user.ID.String(),
			ExpiresAt:    now.Add(ResetTokenExpiry).Unix(),
			SaltFragment: "AAAAAAAAAA",
		}
		payload, err := json.Marshal(claims)
		require.NoError(t, err)
		mac := signer.sign(payload)
		forged := base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(mac)

		_, _, err = signer.Decode(forged, now)
		require.ErrorIs(t, err, ErrInvalidResetToken)
	})
}

func TestResetTokenSigner_Malformed(t *testing.T) {
	signer, err := NewResetTokenSigner(testSigningKey)
	require.NoError(t, err)
	now := time.Now()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "justonepart"},
		{"bad payload encoding", "!!!.c2ln"},
		{"bad signature encoding", "cGF5bG9hZA.!!!"},
		{"payload not json", base64.RawURLEncoding.EncodeToString([]byte("nope")) + "." + base64.RawURLEncoding.EncodeToString(signer.sign([]byte("nope")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := signer.Decode(tt.token, now)
			require.ErrorIs(t, err, ErrInvalidResetToken)
		})
	}
}
