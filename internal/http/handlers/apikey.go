package handlers

import (
	"encoding/json"
	"net/http"

	"lorastudio/internal/domain"
	"lorastudio/internal/infra/credentials"
)

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

type apiKeyResponse struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
}

func (a *App) apiKeyState() apiKeyResponse {
	key := a.Session.APIKey()
	return apiKeyResponse{Configured: key != "", Masked: credentials.Mask(key)}
}

func (a *App) APIKeyGet(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.apiKeyState())
}

// APIKeyPut replaces the credential and persists it.
func (a *App) APIKeyPut(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, string(domain.ErrorKindValidation), "invalid payload")
		return
	}
	if err := a.Session.SetAPIKey(req.APIKey); err != nil {
		a.error(w, http.StatusBadRequest, string(domain.ErrorKindValidation), "api_key is required")
		return
	}
	if err := a.Session.Save(r.Context()); err != nil {
		a.Logger.Error().Err(err).Msg("apikey: save failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save api key")
		return
	}
	a.json(w, http.StatusOK, a.apiKeyState())
}

func (a *App) APIKeyDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Session.ClearAPIKey(r.Context()); err != nil {
		a.Logger.Error().Err(err).Msg("apikey: clear failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to clear api key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
