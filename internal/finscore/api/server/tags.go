package server

import (
	"net/http"

	"github.com/Leopold1975/finscore/internal/finscore/services/productservice"
)

// Tags of the current user
// (GET /v1/tags).
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.productService.ListTags(r.Context(), userFromContext(r.Context()).ID)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newTagsResponse(tags))
}

// (POST /v1/tags).
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req productservice.CreateTagRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	t, err := s.productService.CreateTag(r.Context(), userFromContext(r.Context()).ID, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, newTagResponse(t))
}
