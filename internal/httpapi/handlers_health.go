// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package httpapi

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Basic())
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Live())
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	report, ready := s.health.Ready(r.Context())
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
