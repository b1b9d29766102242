package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"productshot/internal/domain"
)

// statusClientClosedRequest is logged when the caller goes away mid-request.
const statusClientClosedRequest = 499

func upstreamDetails(u *domain.UpstreamError) string {
	if u.Err != nil {
		return u.Err.Error()
	}
	return u.Body
}

// writeGenerationError maps submit and poll failures onto the response envelope.
func (a *App) writeGenerationError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, context.Canceled):
		a.clientGone(w, r, err)
	case errors.Is(err, domain.ErrTimeout):
		a.error(w, http.StatusGatewayTimeout, "Timed out waiting for BFL result", "")
	case errors.Is(err, domain.ErrTaskExpired):
		a.error(w, http.StatusInternalServerError, "Task not found (expired/wrong host). Re-run generation.", "")
	case errors.Is(err, domain.ErrMissingPollingHandle):
		details := ""
		if errors.As(err, &upstream) {
			details = upstream.Body
		}
		a.error(w, http.StatusInternalServerError, "No polling_url returned by BFL", details)
	case domain.IsConfiguration(err):
		a.error(w, http.StatusInternalServerError, err.Error(), "")
	case domain.IsValidation(err):
		a.error(w, http.StatusBadRequest, err.Error(), "")
	case errors.As(err, &upstream):
		message := fmt.Sprintf("BFL create failed: %d", upstream.StatusCode)
		if upstream.Op == domain.OpPoll {
			message = fmt.Sprintf("Polling failed: %d", upstream.StatusCode)
		}
		if upstream.StatusCode == 0 {
			message = "BFL request failed"
		}
		a.error(w, http.StatusInternalServerError, message, upstreamDetails(upstream))
	default:
		a.Logger.Error().Err(err).Msg("generation failed")
		a.error(w, http.StatusInternalServerError, "Generation failed", err.Error())
	}
}

// writeFetchError reports a failed input image download for label.
func (a *App) writeFetchError(w http.ResponseWriter, r *http.Request, label string, err error) {
	message := fmt.Sprintf("Failed to fetch %s image", label)
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, context.Canceled):
		a.clientGone(w, r, err)
	case domain.IsValidation(err):
		a.error(w, http.StatusBadRequest, message, err.Error())
	case errors.As(err, &upstream) && upstream.Err == nil:
		a.error(w, http.StatusInternalServerError, message,
			fmt.Sprintf("Failed to fetch image: %d %s", upstream.StatusCode, upstream.Body))
	default:
		a.error(w, http.StatusInternalServerError, message, err.Error())
	}
}

func (a *App) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, context.Canceled):
		a.clientGone(w, r, err)
	case domain.IsConfiguration(err):
		a.error(w, http.StatusInternalServerError, err.Error(), "")
	case domain.IsValidation(err):
		a.error(w, http.StatusBadRequest, err.Error(), "")
	case errors.As(err, &upstream) && upstream.Err == nil:
		a.error(w, http.StatusInternalServerError,
			fmt.Sprintf("Sprinklr search failed: %d", upstream.StatusCode), upstream.Body)
	default:
		a.error(w, http.StatusInternalServerError, "Sprinklr search failed", err.Error())
	}
}

func (a *App) clientGone(w http.ResponseWriter, r *http.Request, err error) {
	l := zerolog.Ctx(r.Context())
	if l.GetLevel() == zerolog.Disabled {
		l = a.Logger
	}
	l.Info().Err(err).Int("status", statusClientClosedRequest).Msg("client closed request")
	w.WriteHeader(statusClientClosedRequest)
}
