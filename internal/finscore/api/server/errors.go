package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/finscore/internal/finscore/services/authservice"
	"github.com/Leopold1975/finscore/internal/finscore/services/productservice"
	"github.com/Leopold1975/finscore/internal/pkg/validation"
)

type Error struct {
	Err    string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		return []byte(`{"error": "marshal error"}`)
	}

	return b
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	e := Error{Err: err.Error()} //nolint:exhaustruct

	var verr *validation.Error
	if errors.As(err, &verr) {
		e.Err = validation.ErrValidation.Error()
		e.Fields = verr.Fields
	}

	w.Write(e.ToJSON()) //nolint:errcheck
}

// handleServiceError maps service errors to statuses. Resources of other users are
// reported as missing.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validation.ErrValidation):
		handleError(w, err, http.StatusBadRequest)
	case errors.Is(err, authservice.ErrPhoneRequired):
		handleError(w, validation.FieldError("phone_number", err.Error()), http.StatusBadRequest)
	case errors.Is(err, authservice.ErrInvalidCredentials):
		handleError(w, err, http.StatusBadRequest)
	case errors.Is(err, authservice.ErrUnauthorized):
		handleError(w, err, http.StatusUnauthorized)
	case errors.Is(err, productservice.ErrNotFound), errors.Is(err, authservice.ErrNotFound):
		handleError(w, errors.New("not found"), http.StatusNotFound) //nolint:goerr113
	default:
		handleError(w, errors.New("internal server error"), http.StatusInternalServerError) //nolint:goerr113
	}
}
