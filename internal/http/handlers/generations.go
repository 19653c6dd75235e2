package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lorastudio/internal/domain"
	"lorastudio/internal/providers/magicapi"
)

type generateRequest struct {
	domain.GenerationRequest
	LoRAStyle string `json:"lora_style,omitempty"`
}

func (a *App) decodeGenerateRequest(r *http.Request) (domain.GenerationRequest, error) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	out := req.GenerationRequest
	if req.LoRAStyle != "" && out.LoRAURL == "" {
		url, ok := magicapi.ResolveStyle(req.LoRAStyle)
		if !ok {
			return domain.GenerationRequest{}, fmt.Errorf("%w: unknown lora style %q", domain.ErrValidation, req.LoRAStyle)
		}
		out.LoRAURL = url
	}
	return out, nil
}

// GenerationStatus reports the controller snapshot.
func (a *App) GenerationStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Controller.Snapshot())
}

// GenerationsCreate submits a job for the uploaded image. Polling continues
// in the background; clients follow it through GenerationStatus.
func (a *App) GenerationsCreate(w http.ResponseWriter, r *http.Request) {
	req, err := a.decodeGenerateRequest(r)
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	if !a.Session.HasAPIKey() {
		a.fail(w, r, fmt.Errorf("%w: please enter your API key first", domain.ErrMissingAPIKey), nil)
		return
	}
	snap, err := a.Controller.RequestGeneration(r.Context(), req)
	if err != nil {
		a.fail(w, r, err, &snap)
		return
	}
	a.json(w, http.StatusAccepted, snap)
}

// GenerationsCurl renders the submit call for the given parameters as a curl
// command. The uploaded image is used when the payload carries none.
func (a *App) GenerationsCurl(w http.ResponseWriter, r *http.Request) {
	req, err := a.decodeGenerateRequest(r)
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	if req.ImageURL == "" {
		req.ImageURL = a.Controller.Snapshot().ImageURL
	}
	cmd, err := magicapi.CurlCommand(a.RunURL, a.Session.APIKey(), req)
	if err != nil {
		a.fail(w, r, err, nil)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"command": cmd})
}

func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": magicapi.Styles()})
}
