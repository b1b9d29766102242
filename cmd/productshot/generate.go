package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"productshot/internal/domain"
	"productshot/internal/storage"
)

type generateFlags struct {
	prompt    string
	width     int
	height    int
	base      string
	reference string
	logo      string
	outDir    string
}

type generateOutput struct {
	SampleURL string `json:"sampleUrl"`
	ID        string `json:"id"`
	SavedTo   string `json:"savedTo,omitempty"`
}

// byteFetcher is satisfied by *fetch.Fetcher.
type byteFetcher interface {
	FetchBytes(ctx context.Context, rawURL string) ([]byte, error)
}

func newGenerateCmd(e *env) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Submit a generation job and wait for the sample URL",
		Long: `Submit a generation job and wait for the sample URL.

Each image flag takes a local file path or an http(s) URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, e, f)
		},
	}
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", domain.DefaultPrompt, "Generation prompt")
	cmd.Flags().IntVar(&f.width, "width", domain.DefaultWidth, "Output width in pixels")
	cmd.Flags().IntVar(&f.height, "height", domain.DefaultHeight, "Output height in pixels")
	cmd.Flags().StringVarP(&f.base, "base", "b", "", "Base product image (path or URL)")
	cmd.Flags().StringVarP(&f.reference, "reference", "r", "", "Style reference image (path or URL)")
	cmd.Flags().StringVarP(&f.logo, "logo", "l", "", "Logo image (path or URL)")
	cmd.Flags().StringVarP(&f.outDir, "out-dir", "o", "", "Also save the sample as <job id>.png in this directory")
	_ = cmd.MarkFlagRequired("base")
	return cmd
}

func runGenerate(cmd *cobra.Command, e *env, f *generateFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := e.generator()
	if !gen.HasCredentials() {
		return &domain.ConfigurationError{Missing: "BFL_API_KEY"}
	}
	fetcher := e.fetcher()

	req := domain.GenerationRequest{Prompt: f.prompt, Width: f.width, Height: f.height}
	for _, in := range []struct {
		label string
		src   string
		dst   *[]byte
	}{
		{"base", f.base, &req.Base},
		{"reference", f.reference, &req.Reference},
		{"logo", f.logo, &req.Logo},
	} {
		data, err := loadImage(ctx, fetcher, in.src)
		if err != nil {
			return fmt.Errorf("load %s image: %w", in.label, err)
		}
		*in.dst = data
	}

	e.logger.Info().Str("endpoint", gen.Endpoint()).Msg("submitting generation")
	job, err := gen.SubmitAndWait(ctx, req)
	if err != nil {
		return err
	}

	out := generateOutput{SampleURL: job.SampleURL, ID: job.ID}
	if f.outDir != "" {
		store, err := storage.NewSampleStore(f.outDir)
		if err != nil {
			return err
		}
		data, err := fetcher.FetchBytes(ctx, job.SampleURL)
		if err != nil {
			return fmt.Errorf("download sample: %w", err)
		}
		name := job.ID
		if name == "" {
			name = "sample"
		}
		if out.SavedTo, err = store.Save(ctx, name, data); err != nil {
			return err
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

// loadImage reads src from disk, or downloads it when it is an http(s) URL.
// An empty src or an empty image yields nil.
func loadImage(ctx context.Context, fetcher byteFetcher, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	var (
		data []byte
		err  error
	)
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		data, err = fetcher.FetchBytes(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil || len(data) == 0 {
		return nil, err
	}
	return data, nil
}
