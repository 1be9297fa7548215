package http

import (
	"net/http"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/service"
)

type createBudgetRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type updateBudgetRequest struct {
	Name        core.Optional[string]  `json:"name"`
	Description core.Optional[string]  `json:"description"`
	Amount      core.Optional[float64] `json:"amount"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request, user *core.User) {
	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	budget, err := s.budgets.Create(r.Context(), user.ID, req.Name, req.Description, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, budget)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request, user *core.User) {
	budget, err := s.budgets.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, budget)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request, user *core.User) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	total, budgets, err := s.budgets.List(r.Context(), user.ID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, budgets, total, page.Limit, page.Offset)
}

func (s *Server) handleFindBudgets(w http.ResponseWriter, r *http.Request, user *core.User) {
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

	total, budgets, err := s.budgets.Find(r.Context(), user.ID, r.URL.Query().Get("text"), caseSensitive, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, budgets, total, page.Limit, page.Offset)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request, user *core.User) {
	var req updateBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	budget, err := s.budgets.Update(r.Context(), user.ID, r.PathValue("id"), service.BudgetPatch{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request, user *core.User) {
	budget, err := s.budgets.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, budget)
}
