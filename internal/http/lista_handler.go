package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

// ListaHandler manages the electoral list roster and commission interests.
// Thin CRUD over the repository; the only business rule is rubro/tipo
// validation, so there is no service in between.
type ListaHandler struct {
	*Identity
	lista  repository.ListaRepository
	logger *zap.Logger
}

func NewListaHandler(identity *Identity, lista repository.ListaRepository, logger *zap.Logger) *ListaHandler {
	return &ListaHandler{Identity: identity, lista: lista, logger: logger}
}

func (h *ListaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/lista/roles" && r.Method == http.MethodGet:
		h.ListRoles(w, r)
	case path == "/api/v1/lista/roles" && r.Method == http.MethodPost:
		h.CreateRol(w, r)
	case strings.HasPrefix(path, "/api/v1/lista/roles/"):
		id, ok := pathID(path, "/api/v1/lista/roles/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.UpdateRol(w, r, id)
		case http.MethodDelete:
			h.DeleteRol(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case path == "/api/v1/lista/comisiones" && r.Method == http.MethodGet:
		h.ListComisiones(w, r)
	case path == "/api/v1/lista/comisiones" && r.Method == http.MethodPost:
		h.CreateComision(w, r)
	case strings.HasPrefix(path, "/api/v1/lista/comisiones/") && r.Method == http.MethodDelete:
		if id, ok := pathID(path, "/api/v1/lista/comisiones/"); ok {
			h.DeleteComision(w, r, id)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ListaHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("no encontrado"))
		return
	}
	h.logger.Error("lista request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}

func (h *ListaHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.perfil(w, r); !ok {
		return
	}
	tipo := r.URL.Query().Get("tipo")
	if tipo != "" && !domain.ValidRolListaTipo(tipo) {
		writeJSON(w, http.StatusBadRequest, Fail("tipo desconocido"))
		return
	}
	items, err := h.lista.ListRolesLista(r.Context(), tipo)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *ListaHandler) CreateRol(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.RolLista
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if in.PersonaID <= 0 || !domain.ValidRolListaTipo(string(in.Tipo)) {
		writeJSON(w, http.StatusBadRequest, Fail("persona_id y tipo requeridos"))
		return
	}
	id, err := h.lista.CreateRolLista(r.Context(), &in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *ListaHandler) UpdateRol(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.RolLista
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if !domain.ValidRolListaTipo(string(in.Tipo)) {
		writeJSON(w, http.StatusBadRequest, Fail("tipo desconocido"))
		return
	}
	if err := h.lista.UpdateRolLista(r.Context(), id, &in); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *ListaHandler) DeleteRol(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.lista.DeleteRolLista(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *ListaHandler) ListComisiones(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.perfil(w, r); !ok {
		return
	}
	comision := r.URL.Query().Get("comision")
	if comision != "" && !domain.ValidComisionTipo(comision) {
		writeJSON(w, http.StatusBadRequest, Fail("comision desconocida"))
		return
	}
	items, err := h.lista.ListComisionIntereses(r.Context(), comision)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *ListaHandler) CreateComision(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.ComisionInteres
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if in.PersonaID <= 0 || !domain.ValidComisionTipo(string(in.Comision)) {
		writeJSON(w, http.StatusBadRequest, Fail("persona_id y comision requeridos"))
		return
	}
	id, err := h.lista.CreateComisionInteres(r.Context(), &in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *ListaHandler) DeleteComision(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.lista.DeleteComisionInteres(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
