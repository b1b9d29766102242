package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"productshot/internal/domain"
)

const multipartMemory = 8 << 20

type generateResponse struct {
	SampleURL string `json:"sampleUrl"`
	ID        string `json:"id"`
}

// imageInput is one optional form image, uploaded or referenced by URL.
type imageInput struct {
	label string
	data  []byte
	url   string
}

func (in *imageInput) present() bool {
	return in.data != nil || in.url != ""
}

// Generate handles the multipart generation form and blocks until the job
// reaches a terminal state.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if !a.Generator.HasCredentials() {
		a.error(w, http.StatusInternalServerError, "Missing BFL_API_KEY", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes())
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "Upload too large", err.Error())
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	inputs := make([]imageInput, 0, 3)
	for _, label := range []string{"base", "reference", "logo"} {
		in, err := readImageInput(r, label)
		if err != nil {
			a.error(w, http.StatusBadRequest, "Invalid "+label+" image", err.Error())
			return
		}
		inputs = append(inputs, in)
	}
	if !inputs[0].present() {
		a.error(w, http.StatusBadRequest, "Base image is required", "")
		return
	}

	prompt := r.FormValue("prompt")
	if strings.TrimSpace(prompt) == "" {
		a.error(w, http.StatusBadRequest, "Prompt is required", "")
		return
	}
	width, err := parseDimension(r.FormValue("width"), "Width", domain.DefaultWidth)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	height, err := parseDimension(r.FormValue("height"), "Height", domain.DefaultHeight)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	if failed, err := a.fetchInputs(r, inputs); err != nil {
		a.writeFetchError(w, r, failed, err)
		return
	}

	job, err := a.Generator.SubmitAndWait(r.Context(), domain.GenerationRequest{
		Prompt:    prompt,
		Width:     width,
		Height:    height,
		Base:      inputs[0].data,
		Reference: inputs[1].data,
		Logo:      inputs[2].data,
	})
	if err != nil {
		a.writeGenerationError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, generateResponse{SampleURL: job.SampleURL, ID: job.ID})
}

// inputFetchError tags a download failure with the form image it belongs to.
type inputFetchError struct {
	label string
	err   error
}

func (e *inputFetchError) Error() string { return e.label + ": " + e.err.Error() }

func (e *inputFetchError) Unwrap() error { return e.err }

// fetchInputs downloads every URL-sourced input concurrently. An empty body
// leaves the input absent. The first failure cancels the rest and is returned
// with its label.
func (a *App) fetchInputs(r *http.Request, inputs []imageInput) (string, error) {
	g, ctx := errgroup.WithContext(r.Context())
	for i := range inputs {
		in := &inputs[i]
		if in.data != nil || in.url == "" {
			continue
		}
		g.Go(func() error {
			data, err := a.Fetcher.FetchBytes(ctx, in.url)
			if err != nil {
				return &inputFetchError{label: in.label, err: err}
			}
			if len(data) > 0 {
				in.data = data
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		return "", nil
	}
	var tagged *inputFetchError
	if errors.As(err, &tagged) {
		return tagged.label, tagged.err
	}
	return inputs[0].label, err
}

// readImageInput prefers an uploaded file part over the "<label>_url" field.
// A zero-byte part counts as absent.
func readImageInput(r *http.Request, label string) (imageInput, error) {
	in := imageInput{label: label}
	file, header, err := r.FormFile(label)
	switch {
	case err == nil:
		defer file.Close()
		if header.Size > 0 {
			data, err := io.ReadAll(file)
			if err != nil {
				return in, err
			}
			if len(data) > 0 {
				in.data = data
				return in, nil
			}
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		return in, err
	}
	in.url = strings.TrimSpace(r.FormValue(label + "_url"))
	return in, nil
}

// parseDimension reads a width or height form value; empty means fallback.
func parseDimension(raw, name string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.NewValidationError(strings.ToLower(name), name+" must be a positive integer")
	}
	return n, nil
}
