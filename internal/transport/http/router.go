package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"little-genius/internal/app"
	"little-genius/internal/catalog"
)

// NewRouter mounts the REST API and the game websocket.
func NewRouter(service *app.QuizService, catalogs *catalog.Registry, allowedOrigins []string) http.Handler {
	rest := NewRESTHandler(service, catalogs)
	ws := NewWSHandler(service, catalogs, originChecker(allowedOrigins))

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", rest.Health)
	r.Get("/ws", ws.ServeWS)
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalogs/animals/categories", rest.Categories)
		r.Get("/catalogs/{kind}", rest.Catalog)
		r.Get("/numbers", rest.Numbers)
		r.Get("/modes", rest.Modes)
		r.Get("/profiles/{profileID}", rest.GetProfile)
		r.Put("/profiles/{profileID}", rest.PutProfile)
		r.Get("/sessions/{sessionID}/certificate.png", rest.Certificate(app.CertificatePNG))
		r.Get("/sessions/{sessionID}/certificate.txt", rest.Certificate(app.CertificateText))
	})
	return r
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return nil
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
