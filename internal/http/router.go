package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JJ950407/lia-pagare/internal/http/documents"
	"github.com/JJ950407/lia-pagare/internal/http/sessions"
	"github.com/JJ950407/lia-pagare/internal/http/verify"
)

func New(
	documentsV1 *documents.Handler,
	sessionsV1 *sessions.Handler,
	verifyV1 *verify.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			documentsV1.BatchRoutes(r)
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			documentsV1.ContractRoutes(r)
		})

		r.Route("/sessions", sessionsV1.Routes)

		r.Route("/verify", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			verifyV1.Routes(r)
		})
	})

	return router
}
