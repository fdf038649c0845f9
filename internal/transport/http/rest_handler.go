package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"little-genius/internal/app"
	"little-genius/internal/catalog"
	"little-genius/internal/domain"
	"little-genius/internal/present"
)

// RESTHandler serves catalogs, number cards, profiles and certificates.
type RESTHandler struct {
	service  *app.QuizService
	catalogs *catalog.Registry
}

func NewRESTHandler(service *app.QuizService, catalogs *catalog.Registry) *RESTHandler {
	return &RESTHandler{service: service, catalogs: catalogs}
}

type catalogResponse struct {
	Kind        domain.CatalogKind    `json:"kind"`
	Entries     []domain.CatalogEntry `json:"entries"`
	Unavailable bool                  `json:"unavailable,omitempty"`
}

type numbersResponse struct {
	Start    int                  `json:"start"`
	End      int                  `json:"end"`
	Adjusted bool                 `json:"adjusted"`
	Cards    []present.NumberCard `json:"cards"`
}

type profileBody struct {
	PlayerName string `json:"playerName"`
}

type healthResponse struct {
	Status       string `json:"status"`
	LiveSessions *int   `json:"liveSessions,omitempty"`
}

// Health reports liveness and, when the session store can count, the live sessions.
func (h *RESTHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	n, ok, err := h.service.LiveSessions(r.Context())
	switch {
	case err != nil:
		log.Printf("health: count sessions: %v", err)
	case ok:
		resp.LiveSessions = &n
	}
	writeJSON(w, http.StatusOK, resp)
}

// Catalog lists a catalog, optionally filtered by name query and animal category.
func (h *RESTHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	kind := domain.CatalogKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusNotFound, domain.ErrUnknownCatalog)
		return
	}
	entries := h.catalogs.Search(kind, r.URL.Query().Get("q"))
	if category := r.URL.Query().Get("category"); category != "" {
		entries = catalog.FilterCategory(entries, category)
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Kind:        kind,
		Entries:     entries,
		Unavailable: h.catalogs.Failure(kind) != nil,
	})
}

func (h *RESTHandler) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogs.Categories())
}

// Numbers returns number flashcards. Reversed or out-of-range bounds are corrected.
func (h *RESTHandler) Numbers(w http.ResponseWriter, r *http.Request) {
	start, err := intParam(r, "start", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	end, err := intParam(r, "end", 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	lo, hi, adjusted := present.NormalizeRange(start, end)
	writeJSON(w, http.StatusOK, numbersResponse{
		Start:    lo,
		End:      hi,
		Adjusted: adjusted,
		Cards:    present.NumberCards(lo, hi),
	})
}

func (h *RESTHandler) Modes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Modes())
}

func (h *RESTHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	name, err := h.service.PlayerName(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, profileBody{PlayerName: name})
}

func (h *RESTHandler) PutProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := h.service.SetPlayerName(r.Context(), chi.URLParam(r, "profileID"), body.PlayerName)
	if errors.Is(err, domain.ErrPlayerNameRequired) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, profileBody{PlayerName: strings.TrimSpace(body.PlayerName)})
}

// Certificate serves the rendered certificate of a finished session.
func (h *RESTHandler) Certificate(format app.CertificateFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cert, err := h.service.Certificate(r.Context(), chi.URLParam(r, "sessionID"), format)
		if errors.Is(err, domain.ErrNoResult) || errors.Is(err, domain.ErrUnsupportedFormat) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", cert.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+cert.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(cert.Data); err != nil {
			log.Printf("write certificate: %v", err)
		}
	}
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
