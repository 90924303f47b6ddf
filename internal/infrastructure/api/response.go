package api

import (
	"encoding/json"
	"net/http"

	"gateway-core/internal/domain"

	"github.com/rs/zerolog"
)

// HeaderAPIKey is the fixed header carrying the caller's opaque API key.
const HeaderAPIKey = "x-api-key"

// ErrorResponse is the structured error body returned to callers. Store
// error text never appears here, only catalog messages.
type ErrorResponse struct {
	Code           string   `json:"code"`
	Message        string   `json:"message"`
	ResponseParams []string `json:"response_params,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// WriteError renders err as a domain error body. Non-domain errors collapse
// to a generic 500 so internal detail never leaks.
func WriteError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	gwErr := domain.AsGatewayError(err)
	if gwErr == nil {
		logger.Error().Err(err).Msg("Unclassified error reached the response boundary")
		gwErr = domain.NewGatewayError(domain.MsgUnknownError, http.StatusInternalServerError, "internal error")
	}

	WriteJSON(w, gwErr.Status, ErrorResponse{
		Code:           gwErr.Code,
		Message:        gwErr.Render(),
		ResponseParams: gwErr.Params,
	})
}
