// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package httpapi exposes the storefront over HTTP: product catalog
// CRUD, session login/logout, password resets, and health probes.
//
// Responses are JSON. Validation failures return 422 with per-field
// messages; authentication failures return a generic 401 with no hint
// about which part failed.
package httpapi
