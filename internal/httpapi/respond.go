// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/depot-store/depot/internal/catalog"
	"github.com/depot-store/depot/pkg/errutil"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// errorBody is the generic error payload.
type errorBody struct {
	Error string `json:"error"`
}

// validationBody carries per-field validation messages.
type validationBody struct {
	Errors map[string][]string `json:"errors"`
}

// Error codes that surface as 401 without further detail.
var unauthorizedCodes = map[string]struct{}{
	"AUTH_INVALID_CREDENTIALS": {},
	"SESSION_INVALID":          {},
	"SESSION_TOKEN_EMPTY":      {},
	"RESET_TOKEN_INVALID":      {},
}

// Error codes that surface as 404.
var notFoundCodes = map[string]struct{}{
	"CATALOG_NOT_FOUND":   {},
	"AUTH_USER_NOT_FOUND": {},
}

// writeError maps a service error onto the HTTP contract: field-level
// validation failures become 422, authentication failures a generic
// 401, missing entities 404, and everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var validation *catalog.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Errors: validation.Fields})
		return
	}

	code := errutil.Code(err)
	if code == "AUTH_PASSWORD_MISMATCH" {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{
			Errors: map[string][]string{
				"password_confirmation": {"doesn't match password"},
			},
		})
		return
	}
	if code == "AUTH_EMPTY_PASSWORD" {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{
			Errors: map[string][]string{
				"password": {"cannot be blank"},
			},
		})
		return
	}
	if _, ok := unauthorizedCodes[code]; ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	if _, ok := notFoundCodes[code]; ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}

	errutil.LogError(slog.Default(), "request failed", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func decodeJSON(r *http.Request, into any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(into)
}
