package api

import (
	"encoding/json"
	"net/http"

	"gateway-core/internal/application"
	"gateway-core/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// IntegrationHandler exposes the credential vault over HTTP. Sandbox records
// are reached either through the /sandbox paths or the ?sandbox=true flag.
type IntegrationHandler struct {
	vault  *application.VaultService
	logger zerolog.Logger
}

// NewIntegrationHandler creates the integration handler.
func NewIntegrationHandler(vault *application.VaultService, logger zerolog.Logger) *IntegrationHandler {
	return &IntegrationHandler{vault: vault, logger: logger}
}

type credentialPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type createIntegrationRequest struct {
	ProviderCode string              `json:"provider_code"`
	ProviderName string              `json:"provider_name"`
	ConfigData   map[string]any      `json:"config_data"`
	Credentials  []credentialPayload `json:"credentials"`
}

// Create handles POST /integrations. The sandbox flag is forced on the
// sandbox route and otherwise read from the query string.
func (h *IntegrationHandler) Create(forceSandbox bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProviderCode == "" || len(req.Credentials) == 0 {
			WriteError(w, h.logger, domain.NewGatewayError(domain.MsgInvalidPayload, http.StatusBadRequest, "provider_code and credentials are required"))
			return
		}

		credentials := make([]domain.Credential, len(req.Credentials))
		for i, credential := range req.Credentials {
			credentials[i] = domain.Credential{Name: credential.Name, Value: credential.Value}
		}

		integrationID, err := h.vault.CreateIntegration(r.Context(), sandboxFlag(r, forceSandbox), application.CreateIntegrationInput{
			ProviderCode: req.ProviderCode,
			ProviderName: req.ProviderName,
			ConfigData:   req.ConfigData,
			Credentials:  credentials,
		})
		if err != nil {
			WriteError(w, h.logger, err)
			return
		}

		WriteJSON(w, http.StatusCreated, map[string]string{"message": integrationID})
	}
}

// Get handles GET /integrations/{provider_code}, returning the masked record.
func (h *IntegrationHandler) Get(forceSandbox bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := h.vault.GetIntegration(r.Context(), chi.URLParam(r, "provider_code"), sandboxFlag(r, forceSandbox))
		if err != nil {
			WriteError(w, h.logger, err)
			return
		}
		WriteJSON(w, http.StatusOK, record)
	}
}

type updateIntegrationRequest struct {
	Status      *string             `json:"status"`
	ConfigData  map[string]any      `json:"config_data"`
	Credentials []credentialPayload `json:"credentials"`
}

// Update handles PATCH /integrations/{provider_code}.
func (h *IntegrationHandler) Update(forceSandbox bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateIntegrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, h.logger, domain.NewGatewayError(domain.MsgInvalidPayload, http.StatusBadRequest, "invalid body"))
			return
		}

		patch := domain.IntegrationPatch{
			Status:     req.Status,
			ConfigData: req.ConfigData,
		}
		if req.Credentials != nil {
			patch.Credentials = make([]domain.Credential, len(req.Credentials))
			for i, credential := range req.Credentials {
				patch.Credentials[i] = domain.Credential{Name: credential.Name, Value: credential.Value}
			}
		}

		if err := h.vault.UpdateIntegration(r.Context(), chi.URLParam(r, "provider_code"), sandboxFlag(r, forceSandbox), patch); err != nil {
			WriteError(w, h.logger, err)
			return
		}

		WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
	}
}

// Delete handles DELETE /integrations/{provider_code}.
func (h *IntegrationHandler) Delete(forceSandbox bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.vault.DeleteIntegration(r.Context(), chi.URLParam(r, "provider_code"), sandboxFlag(r, forceSandbox)); err != nil {
			WriteError(w, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sandboxFlag(r *http.Request, force bool) bool {
	return force || r.URL.Query().Get("sandbox") == "true"
}
