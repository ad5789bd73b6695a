package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/repository"
	"campana-api/internal/service"
)

// FlowConfigHandler is the Admin-only question/rule editor backing the
// flow configuration page.
type FlowConfigHandler struct {
	*Identity
	config service.FlowConfigService
	logger *zap.Logger
}

func NewFlowConfigHandler(identity *Identity, config service.FlowConfigService, logger *zap.Logger) *FlowConfigHandler {
	return &FlowConfigHandler{Identity: identity, config: config, logger: logger}
}

func (h *FlowConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/flow/preguntas" && r.Method == http.MethodGet:
		h.ListPreguntas(w, r)
	case path == "/api/v1/flow/preguntas" && r.Method == http.MethodPost:
		h.CreatePregunta(w, r)
	case strings.HasSuffix(path, "/activa") && r.Method == http.MethodPost:
		if id, ok := pathID(strings.TrimSuffix(path, "/activa"), "/api/v1/flow/preguntas/"); ok {
			h.SetActiva(w, r, id)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case strings.HasPrefix(path, "/api/v1/flow/preguntas/"):
		id, ok := pathID(path, "/api/v1/flow/preguntas/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodPut:
			h.UpdatePregunta(w, r, id)
		case http.MethodDelete:
			h.DeletePregunta(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case path == "/api/v1/flow/reglas" && r.Method == http.MethodPost:
		h.CreateRegla(w, r)
	case strings.HasPrefix(path, "/api/v1/flow/reglas/") && r.Method == http.MethodDelete:
		if id, ok := pathID(path, "/api/v1/flow/reglas/"); ok {
			h.DeleteRegla(w, r, id)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *FlowConfigHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPregunta),
		errors.Is(err, service.ErrInvalidRegla):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	case errors.Is(err, service.ErrDuplicateRegla):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("no encontrado"))
	default:
		h.logger.Error("flow config request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func (h *FlowConfigHandler) ListPreguntas(w http.ResponseWriter, r *http.Request) {
	// read access is open to every perfil: the call screen preloads the
	// flow from here too
	if _, ok := h.perfil(w, r); !ok {
		return
	}
	items, err := h.config.ListPreguntasConReglas(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *FlowConfigHandler) CreatePregunta(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.PreguntaInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	id, err := h.config.CreatePregunta(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *FlowConfigHandler) UpdatePregunta(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.PreguntaInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.config.UpdatePregunta(r.Context(), id, input); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *FlowConfigHandler) SetActiva(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var req struct {
		Activa bool `json:"activa"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.config.SetPreguntaActiva(r.Context(), id, req.Activa); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *FlowConfigHandler) DeletePregunta(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.config.DeletePregunta(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *FlowConfigHandler) CreateRegla(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.ReglaInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil || input.OrigenID <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail("pregunta_origen_id requerido"))
		return
	}
	id, err := h.config.CreateRegla(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *FlowConfigHandler) DeleteRegla(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.config.DeleteRegla(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
