package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"lorastudio/internal/http/handlers"
	"lorastudio/internal/middleware"
)

// Options carries the router-level settings taken from config.
type Options struct {
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, logger zerolog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	limited := middleware.RateLimit(opts.RateLimitPerMin, time.Minute)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/styles", app.Styles)
		r.Get("/history", app.HistoryList)

		r.Get("/generation", app.GenerationStatus)
		r.With(limited).Post("/generations", app.GenerationsCreate)
		r.Post("/generations/curl", app.GenerationsCurl)

		r.Route("/image", func(r chi.Router) {
			r.With(limited).Post("/", app.ImageUpload)
			r.Delete("/", app.ImageClear)
			r.Get("/preview", app.ImagePreview)
		})

		r.Route("/apikey", func(r chi.Router) {
			r.Get("/", app.APIKeyGet)
			r.Put("/", app.APIKeyPut)
			r.Delete("/", app.APIKeyDelete)
		})
	})

	return r
}
