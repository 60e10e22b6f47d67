package handler

import (
	"net/http"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// UserRequest is the body of user create and update requests.
type UserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

// User is the wire form of domain.User. The password hash is never sent.
type User struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// ProfileResponse is the body of PUT /users/profile/me. Token is set when
// the change invalidated the caller's token claims.
type ProfileResponse struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

func userToResponse(u domain.User) User {
	return User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: u.Role}
}

func (b UserRequest) input() service.UserInput {
	return service.UserInput{
		FirstName: b.FirstName,
		LastName:  b.LastName,
		Email:     b.Email,
		Password:  b.Password,
		Role:      b.Role,
	}
}

// ListUsers handles GET /users. Filter: role.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	f, err := userFilter(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	page, err := s.users.List(r.Context(), p, f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p.Pagination, userToResponse))
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// CreateUser handles POST /users.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body UserRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	u, err := s.users.Create(r.Context(), actor(r), body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// UpdateUser handles PUT /users/{id}.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	var body UserRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	u, err := s.users.Update(r.Context(), actor(r), id, body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// DeleteUser handles DELETE /users/{id}.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	if err := s.users.Delete(r.Context(), actor(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /users/profile/me.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Profile(r.Context(), actor(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(u))
}

// UpdateProfile handles PUT /users/profile/me. A changed email is carried in
// the token, so the caller receives a fresh one.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body UserRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	caller := actor(r)
	u, err := s.users.UpdateProfile(r.Context(), caller, body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := ProfileResponse{User: userToResponse(u)}
	if u.Email != caller.Email {
		token, _, err := s.auth.Refresh(r.Context(), caller, u)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		resp.Token = token
	}
	writeJSON(w, http.StatusOK, resp)
}
