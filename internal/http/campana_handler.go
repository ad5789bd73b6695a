package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/repository"
	"campana-api/internal/service"
)

// CampanaHandler manages email campaigns. Admin-only.
type CampanaHandler struct {
	*Identity
	campanas service.CampanaService
	logger   *zap.Logger
}

func NewCampanaHandler(identity *Identity, campanas service.CampanaService, logger *zap.Logger) *CampanaHandler {
	return &CampanaHandler{Identity: identity, campanas: campanas, logger: logger}
}

func (h *CampanaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/campanas" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/campanas" && r.Method == http.MethodPost:
		h.Create(w, r)
	case strings.HasSuffix(path, "/enviar") && r.Method == http.MethodPost:
		if id, ok := pathID(strings.TrimSuffix(path, "/enviar"), "/api/v1/campanas/"); ok {
			h.Enviar(w, r, id)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case strings.HasPrefix(path, "/api/v1/campanas/"):
		id, ok := pathID(path, "/api/v1/campanas/")
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

func (h *CampanaHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCampana):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	case errors.Is(err, service.ErrCampanaNotDraft):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("campania no encontrada"))
	default:
		h.logger.Error("campana request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func (h *CampanaHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	items, err := h.campanas.ListCampanas(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *CampanaHandler) Get(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	c, err := h.campanas.GetCampana(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(c))
}

func (h *CampanaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.CampanaInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	id, err := h.campanas.CreateCampana(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *CampanaHandler) Update(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.CampanaInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.campanas.UpdateCampana(r.Context(), id, input); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *CampanaHandler) Delete(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.campanas.DeleteCampana(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *CampanaHandler) Enviar(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	enviados, err := h.campanas.EnviarCampana(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"enviados": enviados}))
}
