// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package auth provides user accounts, password hashing, database-backed
// sessions, and signed password-reset tokens.
//
// Passwords are hashed with argon2id and stored as PHC strings. Session
// tokens are opaque random values; only their SHA-256 hash is persisted.
// Reset tokens are stateless: an HMAC-signed payload binding the user,
// an expiry, and a fragment of the current password-hash salt, so that
// changing the password invalidates every outstanding token without a
// revocation store.
package auth
