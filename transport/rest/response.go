package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
)

// maxRequestSize caps request bodies; a full board request is well under it.
const maxRequestSize = 4 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint: errchkjson // nothing to do once the header is out
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var (
		validationErrs validator.ValidationErrors
		tooLarge       *http.MaxBytesError
	)

	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrIllegalMove),
		errors.Is(err, apperror.ErrAdvisorPending),
		errors.Is(err, apperror.ErrNoLegalMove):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrUnknownMode),
		errors.Is(err, errBadRequest),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
