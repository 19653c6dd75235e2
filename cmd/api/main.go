package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"lorastudio/internal/http/handlers"
	httpapi "lorastudio/internal/http/httpapi"
	"lorastudio/internal/infra"
	"lorastudio/internal/lifecycle"
	"lorastudio/internal/providers/magicapi"
	"lorastudio/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := session.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session")
	}
	defer sess.Close()
	if !sess.HasAPIKey() {
		logger.Warn().Msg("magicapi api key missing, set it through PUT /v1/apikey")
	}

	client, err := magicapi.NewClient(magicapi.Options{
		Credentials:    sess,
		UploadURL:      cfg.UploadURL,
		RunURL:         cfg.RunURL,
		StatusURL:      cfg.StatusURL,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure magicapi client")
	}

	ctrl, err := lifecycle.NewController(lifecycle.Options{
		Transport:    client,
		History:      sess.History(),
		Logger:       &logger,
		PollInterval: cfg.PollInterval,
		MaxPollTicks: cfg.PollMaxTicks,
		BaseContext:  ctx,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build lifecycle controller")
	}
	defer ctrl.Close()

	app := handlers.NewApp(ctrl, sess, logger)
	app.RunURL = client.RunURL()
	app.MaxUploadBytes = cfg.MaxUploadBytes

	router := httpapi.NewRouter(app, logger, httpapi.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("history_backend", cfg.HistoryBackend).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
