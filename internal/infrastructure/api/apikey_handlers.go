package api

import (
	"encoding/json"
	"net/http"

	"gateway-core/internal/application"
	"gateway-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// APIKeyHandler exposes key and group administration over HTTP.
type APIKeyHandler struct {
	registry *application.RegistryService
	logger   zerolog.Logger
}

// NewAPIKeyHandler creates the administration handler.
func NewAPIKeyHandler(registry *application.RegistryService, logger zerolog.Logger) *APIKeyHandler {
	return &APIKeyHandler{registry: registry, logger: logger}
}

type createAPIKeyRequest struct {
	Name             string   `json:"name"`
	AssociatedGroups []string `json:"associated_groups"`
}

// CreateAPIKey handles POST /apikeys. To create a master key pass
// associated_groups = ["*"]-granting groups.
func (h *APIKeyHandler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req createAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		WriteError(w, h.logger, domain.NewGatewayError(domain.MsgInvalidPayload, http.StatusBadRequest, "name is required"))
		return
	}

	apiKey, err := h.registry.CreateAPIKey(r.Context(), req.Name, req.AssociatedGroups)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"api_key": apiKey,
		"message": domain.MsgAPIKeyCreated.Text,
	})
}

type updateAPIKeyRequest struct {
	Name             *string  `json:"name"`
	AssociatedGroups []string `json:"associated_groups"`
	Status           *string  `json:"status"`
	LastUsed         bool     `json:"last_used"`
}

// UpdateAPIKey handles PATCH /apikeys/{api_key}. Absent fields are left
// untouched.
func (h *APIKeyHandler) UpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req updateAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, domain.NewGatewayError(domain.MsgInvalidPayload, http.StatusBadRequest, "invalid body"))
		return
	}

	patch := domain.APIKeyPatch{
		Name:             req.Name,
		AssociatedGroups: req.AssociatedGroups,
		Status:           req.Status,
		TouchLastUsed:    req.LastUsed,
	}
	if err := h.registry.UpdateAPIKey(r.Context(), chi.URLParam(r, "api_key"), patch); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}

type createGroupRequest struct {
	Name           string   `json:"name"`
	AssociatedApps []string `json:"associated_apps"`
}

// CreateGroup handles POST /apikeys/groups.
func (h *APIKeyHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		WriteError(w, h.logger, domain.NewGatewayError(domain.MsgInvalidPayload, http.StatusBadRequest, "name is required"))
		return
	}

	if err := h.registry.CreateGroup(r.Context(), req.Name, req.AssociatedApps); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{
		"message": domain.MsgGroupCreated.Text,
		"code":    domain.MsgGroupCreated.Code,
	})
}

// ListGroups handles GET /apikeys/groups.
func (h *APIKeyHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.registry.ListGroups(r.Context())
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	WriteJSON(w, http.StatusOK, groups)
}
