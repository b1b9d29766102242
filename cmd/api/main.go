package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"productshot/internal/http/handlers"
	httpapi "productshot/internal/http/httpapi"
	"productshot/internal/infra"
	"productshot/internal/providers/bfl"
	"productshot/internal/providers/fetch"
	"productshot/internal/providers/sprinklr"
)

func main() {
	// Optional .env
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	upstream := infra.NewUpstreamHTTPClient(cfg)
	generator := bfl.NewClient(bfl.Options{
		APIKey:       cfg.BFLAPIKey,
		BaseURL:      cfg.BFLBaseURL,
		ModelPath:    cfg.BFLModelPath,
		PollInterval: cfg.BFLPollInterval,
		PollTimeout:  cfg.BFLPollTimeout,
		HTTPClient:   upstream,
		Logger:       &logger,
	})
	assets := sprinklr.NewClient(sprinklr.Options{
		BearerToken: cfg.SprinklrBearerToken,
		APIKey:      cfg.SprinklrAPIKey,
		Endpoint:    cfg.SprinklrEndpoint,
		ClientID:    cfg.SprinklrClientID,
		HTTPClient:  upstream,
		Logger:      &logger,
	})
	// Input downloads carry no client timeout; request cancellation bounds them.
	fetcher := fetch.NewFetcher(fetch.Options{Logger: &logger})

	if !generator.HasCredentials() {
		logger.Warn().Msg("BFL_API_KEY not set; /generate will return 500")
	}
	if !assets.HasCredentials() {
		logger.Warn().Msg("Sprinklr credentials not set; /search will return 500")
	}

	app := handlers.NewApp(cfg, &logger, generator, assets, fetcher)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("bfl_endpoint", generator.Endpoint()).
			Dur("write_timeout", server.WriteTimeout()).
			Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// In-flight generations may still be polling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.BFLPollTimeout+10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
