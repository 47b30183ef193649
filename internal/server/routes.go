package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Accounts
	mux.HandleFunc("/api/accounts/performance", s.handleAccountPerformance)
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)

	// Net worth
	mux.HandleFunc("/api/networth/history", s.handleNetWorthHistory)
	mux.HandleFunc("/api/networth/chart", s.handleNetWorthChart)
	mux.HandleFunc("/api/networth/chart.png", s.handleNetWorthChartPNG)
	mux.HandleFunc("/api/networth/summary", s.handleNetWorthSummary)

	// Demo
	mux.HandleFunc("/api/demo/reset", s.handleDemoReset)
}

// routeAccounts dispatches /api/accounts/{id}[/history].
func (s *Server) routeAccounts(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/accounts/", "")
	if id == "" {
		s.handleAccounts(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/accounts/"+id)
	switch rest {
	case "", "/":
		s.handleAccount(w, r, id)
	case "/history":
		s.handleAccountHistory(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
