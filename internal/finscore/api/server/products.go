package server

import (
	"fmt"
	"net/http"

	"github.com/Leopold1975/finscore/internal/finscore/services/productservice"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// productID binds the {id} path parameter.
func productID(r *http.Request) (int64, error) {
	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter id: %w", err)
	}

	return id, nil
}

// tagsParam binds the optional comma separated ?tags= filter.
func tagsParam(r *http.Request) ([]int64, error) {
	q := r.URL.Query()
	if q.Get("tags") == "" {
		return nil, nil
	}

	var tags []int64

	if err := runtime.BindQueryParameter("form", false, true, "tags", q, &tags); err != nil {
		return nil, fmt.Errorf("invalid format for parameter tags: %w", err)
	}

	return tags, nil
}

// Products of the current user, optionally having any of the given tags
// (GET /v1/products).
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	tags, err := tagsParam(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	products, err := s.productService.ListProducts(r.Context(), userFromContext(r.Context()).ID, tags)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newProductsResponse(products))
}

// (POST /v1/products).
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productservice.ProductRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	p, err := s.productService.CreateProduct(r.Context(), userFromContext(r.Context()).ID, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, newProductResponse(p))
}

// Detailed product with its tags nested
// (GET /v1/products/{id}).
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	p, err := s.productService.GetProduct(r.Context(), userFromContext(r.Context()).ID, id)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newProductDetailResponse(p))
}

// Full update, a missing tags field clears the tag set
// (PUT /v1/products/{id}).
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var req productservice.ProductRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	p, err := s.productService.UpdateProduct(r.Context(), userFromContext(r.Context()).ID, id, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newProductResponse(p))
}

// (PATCH /v1/products/{id}).
func (s *Server) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	var req productservice.PatchProductRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	p, err := s.productService.PatchProduct(r.Context(), userFromContext(r.Context()).ID, id, req)
	if err != nil {
		handleServiceError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, newProductResponse(p))
}

// (DELETE /v1/products/{id}).
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handleError(w, err, http.StatusBadRequest)

		return
	}

	if err := s.productService.DeleteProduct(r.Context(), userFromContext(r.Context()).ID, id); err != nil {
		handleServiceError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
