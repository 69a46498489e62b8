package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cadenr/youface-be/internal/auth"
	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/services"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps the service error taxonomy to HTTP status codes. Every
// taxonomy error is recoverable; anything unrecognized is treated as a
// store failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrWrongPassword):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports a failed operation, preferring the service's message
// and severity when it produced one.
func writeError(w http.ResponseWriter, err error, result services.Result) {
	if result.Message == "" {
		result = services.Result{Message: err.Error(), Severity: services.SeverityDanger}
	}
	writeJSON(w, statusFor(err), result)
}

// currentUser re-resolves the acting user from the credential pair the
// auth middleware put on the context. Identity is re-checked on every
// request; there is no session state.
func currentUser(r *http.Request, users services.UserServiceProvider) (models.User, error) {
	claims, ok := r.Context().Value(auth.CredentialsKey).(*auth.Claims)
	if !ok {
		return models.User{}, errors.New("no credentials on request")
	}
	return users.Authenticate(claims.Username, claims.Password)
}
