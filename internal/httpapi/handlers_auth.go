// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package httpapi

import (
	"net"
	"net/http"
	"time"

	"github.com/depot-store/depot/internal/auth"
	"github.com/depot-store/depot/pkg/errutil"
)

type loginRequest struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type userResponse struct {
	ID           string    `json:"id"`
	EmailAddress string    `json:"email_address"`
	CreatedAt    time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type resetRequest struct {
	EmailAddress string `json:"email_address"`
}

type newPasswordRequest struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// clientIP strips the port from RemoteAddr. Sessions record the raw
// peer address; proxy headers are deliberately not trusted here.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	session, token, err := s.auth.Login(r.Context(), req.EmailAddress, req.Password,
		r.UserAgent(), clientIP(r))
	if err != nil {
		s.recordLogin("failure")
		writeError(w, err)
		return
	}
	s.recordLogin("success")

	user, err := s.auth.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, token, 0)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User: userResponse{
			ID:           user.ID.String(),
			EmailAddress: user.EmailAddress,
			CreatedAt:    user.CreatedAt,
		},
	})
}

// handleLogout destroys the current session. It is idempotent: a
// missing or stale token still clears the cookie and returns 204.
// handleLogout is idempotent for missing or stale tokens only; a session
// store failure must not report the session as destroyed.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		session, err := s.auth.ValidateSession(r.Context(), token)
		if err != nil {
			// Stale or unknown tokens have nothing to destroy; anything
			// else means the session may still be alive.
			if _, stale := unauthorizedCodes[errutil.Code(err)]; !stale {
				writeError(w, err)
				return
			}
		} else if err := s.auth.Logout(r.Context(), session.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	s.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// handleRequestReset accepts a reset request. The response is the same
// whether or not the address is registered; the token goes out through
// the delivery hook, never the response body.
func (s *Server) handleRequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	token, err := s.resets.RequestReset(r.Context(), req.EmailAddress)
	if err != nil {
		writeError(w, err)
		return
	}
	if token != "" {
		s.deliver(r.Context(), auth.NormalizeEmail(req.EmailAddress), token)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "password reset instructions sent (if user with that email address exists)",
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req newPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return
	}

	err := s.resets.ResetPassword(r.Context(), r.PathValue("token"),
		req.Password, req.PasswordConfirmation)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	user, err := s.auth.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{
		ID:           user.ID.String(),
		EmailAddress: user.EmailAddress,
		CreatedAt:    user.CreatedAt,
	})
}
