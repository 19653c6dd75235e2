package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"lorastudio/internal/domain"
	"lorastudio/internal/lifecycle"
	"lorastudio/internal/session"
)

type App struct {
	Controller     *lifecycle.Controller
	Session        *session.Session
	Logger         zerolog.Logger
	RunURL         string
	MaxUploadBytes int64
	Now            func() time.Time
}

func NewApp(ctrl *lifecycle.Controller, sess *session.Session, logger zerolog.Logger) *App {
	return &App{
		Controller:     ctrl,
		Session:        sess,
		Logger:         logger,
		MaxUploadBytes: 20 << 20,
		Now:            time.Now,
	}
}

type errorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	State   *lifecycle.Snapshot `json:"state,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorResponse{Error: kind, Message: message})
}

// fail writes err with the status its kind maps to, attaching the controller
// snapshot when one is available.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error, snap *lifecycle.Snapshot) {
	kind := domain.KindOf(err)
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	a.json(w, code, errorResponse{Error: string(kind), Message: err.Error(), State: snap})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingAPIKey):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpload), errors.Is(err, domain.ErrSubmission), errors.Is(err, domain.ErrPoll):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
