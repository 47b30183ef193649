package server

import (
	"net/http"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/models"
)

// accountRequest is the writable subset of an account.
type accountRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
	IsDebt   bool    `json:"is_debt"`
}

func (req accountRequest) toAccount(id string) *models.Account {
	return &models.Account{
		ID:       id,
		Name:     req.Name,
		Type:     req.Type,
		Balance:  req.Balance,
		Currency: req.Currency,
		IsDebt:   req.IsDebt,
	}
}

// handleAccounts handles GET and POST /api/accounts.
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	if r.Method == http.MethodGet {
		accounts, err := s.app.AccountService.ListAccounts(r.Context(), userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"accounts": accounts,
		})
		return
	}

	var req accountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	created, err := s.app.AccountService.CreateAccount(r.Context(), userID, req.toAccount(""))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// handleAccount handles GET, PUT and DELETE /api/accounts/{id}.
func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		account, err := s.app.AccountService.GetAccount(r.Context(), userID, id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, account)

	case http.MethodPut:
		var req accountRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		updated, err := s.app.AccountService.UpdateAccount(r.Context(), userID, req.toAccount(id))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.app.AccountService.DeleteAccount(r.Context(), userID, id); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAccountHistory handles GET /api/accounts/{id}/history?range=.
func (s *Server) handleAccountHistory(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	tr, ok := rangeParam(w, r)
	if !ok {
		return
	}

	points, err := s.app.AccountService.AccountHistory(r.Context(), common.ResolveUserID(r.Context()), id, tr)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"account_id": id,
		"range":      tr,
		"points":     points,
	})
}

// handleAccountPerformance handles GET /api/accounts/performance?range=.
func (s *Server) handleAccountPerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	tr, ok := rangeParam(w, r)
	if !ok {
		return
	}

	perf, err := s.app.PerformanceService.AccountPerformance(r.Context(), common.ResolveUserID(r.Context()), tr)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"range":    tr,
		"accounts": perf,
	})
}
