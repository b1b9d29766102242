package main

import (
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"productshot/internal/infra"
	"productshot/internal/providers/bfl"
	"productshot/internal/providers/fetch"
	"productshot/internal/providers/sprinklr"
)

// env holds what every subcommand needs once configuration is loaded.
type env struct {
	cfg    *infra.Config
	logger *infra.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var envFile string

	root := &cobra.Command{
		Use:   "productshot",
		Short: "Generate product photos with BFL Flux and search the Sprinklr DAM",
		Long: `productshot runs the same generation and search flows as the HTTP API,
straight from a terminal. Credentials come from the environment or a .env file.

Examples:
  productshot search sneakers
  productshot generate --base ./bottle.png --logo https://cdn.example/logo.png
  productshot generate --base ./bottle.png --prompt "on a marble counter" --out-dir ./samples`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return err
				}
			} else {
				_ = godotenv.Load()
			}
			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			logger := infra.NewLoggerTo(cfg.AppEnv, cmd.ErrOrStderr())
			e.cfg = cfg
			e.logger = &logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file instead of ./.env")

	root.AddCommand(newSearchCmd(e), newGenerateCmd(e))
	return root
}

func (e *env) generator() *bfl.Client {
	return bfl.NewClient(bfl.Options{
		APIKey:       e.cfg.BFLAPIKey,
		BaseURL:      e.cfg.BFLBaseURL,
		ModelPath:    e.cfg.BFLModelPath,
		PollInterval: e.cfg.BFLPollInterval,
		PollTimeout:  e.cfg.BFLPollTimeout,
		HTTPClient:   infra.NewUpstreamHTTPClient(e.cfg),
		Logger:       e.logger,
	})
}

func (e *env) searcher() *sprinklr.Client {
	return sprinklr.NewClient(sprinklr.Options{
		BearerToken: e.cfg.SprinklrBearerToken,
		APIKey:      e.cfg.SprinklrAPIKey,
		Endpoint:    e.cfg.SprinklrEndpoint,
		ClientID:    e.cfg.SprinklrClientID,
		HTTPClient:  infra.NewUpstreamHTTPClient(e.cfg),
		Logger:      e.logger,
	})
}

func (e *env) fetcher() *fetch.Fetcher {
	return fetch.NewFetcher(fetch.Options{Logger: e.logger})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
