package http

import (
	"net/http"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/service"
)

type createTransactionRequest struct {
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	CategoryID  string     `json:"category_id"`
	BudgetID    *string    `json:"budget_id"`
	Timestamp   *time.Time `json:"timestamp"`
}

type updateTransactionRequest struct {
	Amount      core.Optional[float64]   `json:"amount"`
	Description core.Optional[string]    `json:"description"`
	CategoryID  core.Optional[string]    `json:"category_id"`
	Timestamp   core.Optional[time.Time] `json:"timestamp"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, user *core.User) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	// An omitted timestamp means "now".
	timestamp := core.UTCNow()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	transaction, err := s.transactions.Create(r.Context(), user.ID, req.Amount, req.Description, req.CategoryID, req.BudgetID, timestamp)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, transaction)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, user *core.User) {
	transaction, err := s.transactions.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, transaction)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, user *core.User) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	total, transactions, err := s.transactions.List(r.Context(), user.ID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, transactions, total, page.Limit, page.Offset)
}

func (s *Server) handleFindTransactions(w http.ResponseWriter, r *http.Request, user *core.User) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	caseSensitive, err := parseBoolParam(r, "case_sensitive")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	total, transactions, err := s.transactions.Find(r.Context(), user.ID, r.URL.Query().Get("text"), caseSensitive, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, transactions, total, page.Limit, page.Offset)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, user *core.User) {
	var req updateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	transaction, err := s.transactions.Update(r.Context(), user.ID, r.PathValue("id"), service.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, transaction)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, user *core.User) {
	transaction, err := s.transactions.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, transaction)
}
