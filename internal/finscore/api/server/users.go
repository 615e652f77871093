package server

import (
	"net/http"

	"github.com/Leopold1975/finscore/internal/finscore/services/authservice"
)

// Registration
// (POST /v1/users).
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req authservice.CreateUserRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	u, err := s.authService.CreateUser(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

// Token issue, phone number and password in exchange for a token
// (POST /v1/users/token).
func (s *Server) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req authservice.LoginRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	token, err := s.authService.Login(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// (GET /v1/users/me).
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.authService.GetUser(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(u))
}

// (PUT /v1/users/me).
func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	s.updateMe(w, r, false)
}

// (PATCH /v1/users/me).
func (s *Server) PatchMe(w http.ResponseWriter, r *http.Request) {
	s.updateMe(w, r, true)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request, partial bool) {
	var req authservice.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	u, err := s.authService.UpdateUser(r.Context(), userFromContext(r.Context()).ID, req, partial)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(u))
}
