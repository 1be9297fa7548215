package http

import (
	"fmt"
	"net/http"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/service"
)

type createCategoryRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Type        core.CategoryType `json:"type"`
	EmojiIcon   *string           `json:"emoji_icon"`
}

type updateCategoryRequest struct {
	Name        core.Optional[string]            `json:"name"`
	Description core.Optional[string]            `json:"description"`
	Type        core.Optional[core.CategoryType] `json:"type"`
	IsArchived  core.Optional[bool]              `json:"is_archived"`
	EmojiIcon   core.Optional[*string]           `json:"emoji_icon"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, user *core.User) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if !req.Type.Valid() {
		writeBadRequest(w, fmt.Sprintf("invalid category type %q", req.Type))
		return
	}

	category, err := s.categories.Create(r.Context(), user.ID, req.Name, req.Description, req.Type, req.EmojiIcon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, category)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request, user *core.User) {
	category, err := s.categories.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, user *core.User) {
	page, err := parsePage(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	showArchived, err := parseBoolParam(r, "show_archived")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var categoryType *core.CategoryType
	if v := r.URL.Query().Get("type"); v != "" {
		t := core.CategoryType(v)
		if !t.Valid() {
			writeBadRequest(w, fmt.Sprintf("invalid category type %q", v))
			return
		}
		categoryType = &t
	}

	total, categories, err := s.categories.List(r.Context(), user.ID, categoryType, showArchived, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, categories, total, page.Limit, page.Offset)
}

func (s *Server) handleFindCategories(w http.ResponseWriter, r *http.Request, user *core.User) {
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

	total, categories, err := s.categories.Find(r.Context(), user.ID, r.URL.Query().Get("text"), caseSensitive, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, categories, total, page.Limit, page.Offset)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, user *core.User) {
	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if t, ok := req.Type.Get(); ok && !t.Valid() {
		writeBadRequest(w, fmt.Sprintf("invalid category type %q", t))
		return
	}

	category, err := s.categories.Update(r.Context(), user.ID, r.PathValue("id"), service.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		IsArchived:  req.IsArchived,
		EmojiIcon:   req.EmojiIcon,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, user *core.User) {
	category, err := s.categories.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}
