package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/keikodev/keiko-economy/internal/domain"
)

// ErrorResponse is the uniform failure body. Suggestion carries the
// alternative quantity offered on a rejected purchase, when one exists.
type ErrorResponse struct {
	Error      string `json:"error"`
	Suggestion int64  `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeDomainError translates engine errors into short user-facing
// messages. Internals are never echoed back.
func writeDomainError(w http.ResponseWriter, err error) {
	var funds *domain.InsufficientFundsError
	if errors.As(err, &funds) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: funds.Error(), Suggestion: funds.Affordable})
		return
	}
	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: stock.Error(), Suggestion: stock.Available})
		return
	}

	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrHeroNotFound),
		errors.Is(err, domain.ErrMonsterNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidStock),
		errors.Is(err, domain.ErrInvalidRecipe),
		errors.Is(err, domain.ErrMalformedPrice):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTagConflict),
		errors.Is(err, domain.ErrNotSellable),
		errors.Is(err, domain.ErrNotUsable),
		errors.Is(err, domain.ErrNotHeld),
		errors.Is(err, domain.ErrNoRecipe),
		errors.Is(err, domain.ErrHeroCapReached),
		errors.Is(err, domain.ErrHeroAccountExists),
		errors.Is(err, domain.ErrNoHeroAccount),
		errors.Is(err, domain.ErrNameTaken):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMissingPermission):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
