package api

import (
	"net/http"
	"time"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/model"
	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/service"
)

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) issueToken(u model.User) (tokenResponse, error) {
	token, expires, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return tokenResponse{}, err
	}
	return tokenResponse{
		Token:     token,
		ExpiresAt: expires.UTC(),
		User:      userResponse{ID: u.ID, Username: u.Username, Email: u.Email},
	}, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterUserInput
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := service.RegisterUser(r.Context(), s.db, s.clock, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.issueToken(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := service.AuthenticateUser(r.Context(), s.db, in.Username, in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.issueToken(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}
