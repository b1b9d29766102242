package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"productshot/internal/http/handlers"
	"productshot/internal/middleware"
)

// NewRouter wires the middleware chain and every public route.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	var origins []string
	if app.Config != nil {
		origins = app.Config.CORSOrigins
	}
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(*app.Logger),
		chimw.Recoverer,
		middleware.CORS(origins),
	)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/defaults", app.Defaults)
		r.Get("/docs", app.OpenAPIDocs)
	})
	r.Get(handlers.OpenAPIPath, app.OpenAPIJSON)

	// Generation blocks for up to the poll budget.
	r.Post("/generate", app.Generate)
	r.Post("/api/generate", app.Generate)

	r.Post("/search", app.Search)
	r.Post("/sprinklr-search", app.Search)

	return r
}
