// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package catalog provides the product catalog for Depot.
//
// # Domain Types
//
// Product is the only entity. Validation is field-level and exhaustive:
// Product.Validate reports every violated rule at once as an Errors value,
// mirroring what the storefront renders next to each form field.
//
// # Services
//
// service coordinates validation and persistence:
//   - Service - product create/read/update/delete and title-ordered listing
//
// Title uniqueness is checked twice: a read-only query at validation time
// (so the caller gets a field error) and a unique index in the database
// (so concurrent writers cannot race past the check).
package catalog
