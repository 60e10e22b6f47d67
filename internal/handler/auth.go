package handler

import (
	"net/http"
	"time"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session describes the caller behind a token.
type Session struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token string  `json:"token"`
	User  Session `json:"user"`
}

func sessionOf(c domain.Claims) Session {
	return Session{ID: c.ID, Email: c.Email, Role: c.Role, ExpiresAt: c.ExpiresAt.UTC()}
}

// Register handles POST /auth/register. Any role in the body is ignored.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body UserRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	u, err := s.auth.Register(r.Context(), body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	token, claims, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: sessionOf(claims)})
}

// Logout handles POST /auth/logout by revoking the presented token.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), actor(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Verify handles GET /auth/verify and echoes the caller's claims.
func (s *Server) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionOf(actor(r)))
}
