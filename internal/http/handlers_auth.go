package http

import (
	"net/http"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Login     string `json:"login"`
	Password  string `json:"password"`
}

// userPayload is the rendered user: everything except the password hash.
type userPayload struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Login     string    `json:"login"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

func renderUser(user *core.User) userPayload {
	return userPayload{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Login:     user.Login,
		CreatedAt: user.CreatedAt,
		LastLogin: user.LastLogin,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	user, err := s.auth.Register(r.Context(), req.FirstName, req.LastName, req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, renderUser(user))
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	token, err := s.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, loginResponse{Token: token})
}
