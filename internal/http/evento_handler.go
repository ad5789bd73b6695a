package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

// EventoHandler manages the campaign calendar.
type EventoHandler struct {
	*Identity
	eventos repository.EventosRepository
	logger  *zap.Logger
}

func NewEventoHandler(identity *Identity, eventos repository.EventosRepository, logger *zap.Logger) *EventoHandler {
	return &EventoHandler{Identity: identity, eventos: eventos, logger: logger}
}

func (h *EventoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/eventos" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/eventos" && r.Method == http.MethodPost:
		h.Create(w, r)
	case strings.HasPrefix(path, "/api/v1/eventos/"):
		id, ok := pathID(path, "/api/v1/eventos/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.Update(w, r, id)
		case http.MethodDelete:
			h.Delete(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *EventoHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("no encontrado"))
		return
	}
	h.logger.Error("evento request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}

func validEvento(e *domain.Evento) string {
	if strings.TrimSpace(e.Nombre) == "" {
		return "nombre requerido"
	}
	if e.Fecha.IsZero() {
		return "fecha requerida"
	}
	return ""
}

func (h *EventoHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.perfil(w, r); !ok {
		return
	}
	items, err := h.eventos.ListEventos(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *EventoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.Evento
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if msg := validEvento(&in); msg != "" {
		writeJSON(w, http.StatusBadRequest, Fail(msg))
		return
	}
	id, err := h.eventos.CreateEvento(r.Context(), &in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *EventoHandler) Update(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.Evento
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if msg := validEvento(&in); msg != "" {
		writeJSON(w, http.StatusBadRequest, Fail(msg))
		return
	}
	if err := h.eventos.UpdateEvento(r.Context(), id, &in); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *EventoHandler) Delete(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.eventos.DeleteEvento(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
