// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when a user's email address is already
// registered. Repository implementations map unique-constraint
// violations to this sentinel.
var ErrEmailTaken = errors.New("email address already taken")
