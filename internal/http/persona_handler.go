package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

// PersonaHandler is the persona directory used by the roster and
// commission pickers. Electores wrap personas; this endpoint serves the
// people that are not (yet) electores.
type PersonaHandler struct {
	*Identity
	personas repository.PersonasRepository
	logger   *zap.Logger
}

func NewPersonaHandler(identity *Identity, personas repository.PersonasRepository, logger *zap.Logger) *PersonaHandler {
	return &PersonaHandler{Identity: identity, personas: personas, logger: logger}
}

func (h *PersonaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/personas" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/personas" && r.Method == http.MethodPost:
		h.Create(w, r)
	case strings.HasPrefix(path, "/api/v1/personas/"):
		id, ok := pathID(path, "/api/v1/personas/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.Get(w, r, id)
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

func (h *PersonaHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("persona no encontrada"))
	case errors.Is(err, repository.ErrDuplicate):
		writeJSON(w, http.StatusConflict, Fail("ya existe una persona con esa cedula"))
	default:
		h.logger.Error("persona request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func (h *PersonaHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.perfil(w, r); !ok {
		return
	}
	q := r.URL.Query()
	items, total, err := h.personas.ListPersonas(r.Context(),
		repository.PersonaFilters{Search: q.Get("search")},
		parseInt(q.Get("page"), 1),
		parseInt(q.Get("size"), 20),
	)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(Paged[*domain.Persona]{Items: items, Total: total}))
}

func (h *PersonaHandler) Get(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.perfil(w, r); !ok {
		return
	}
	p, err := h.personas.GetPersona(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PersonaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.Persona
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" {
		writeJSON(w, http.StatusBadRequest, Fail("nombre requerido"))
		return
	}
	id, err := h.personas.CreatePersona(r.Context(), &in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *PersonaHandler) Update(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.Persona
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" {
		writeJSON(w, http.StatusBadRequest, Fail("nombre requerido"))
		return
	}
	if err := h.personas.UpdatePersona(r.Context(), id, &in); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *PersonaHandler) Delete(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.personas.DeletePersona(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
