package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public feedback form
	r.Post("/feedback", apiHandler.SubmitFeedbackHandler)
	r.Get("/feedback", apiHandler.ListFeedbackHandler)

	// Dashboard
	r.Post("/insights", apiHandler.InsightsHandler)

	// Projects
	r.Post("/projects", apiHandler.CreateProjectHandler)
	r.Post("/projects/find", apiHandler.FindProjectHandler)
	r.Post("/projects/user", apiHandler.UserProjectsHandler)
	r.Get("/projects/slug/{slug}", apiHandler.ProjectBySlugHandler)

	return r
}
