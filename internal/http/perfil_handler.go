package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

// PerfilHandler exposes the caller's own profile and the Admin user list.
type PerfilHandler struct {
	*Identity
	perfiles repository.PerfilesRepository
	logger   *zap.Logger
}

func NewPerfilHandler(identity *Identity, perfiles repository.PerfilesRepository, logger *zap.Logger) *PerfilHandler {
	return &PerfilHandler{Identity: identity, perfiles: perfiles, logger: logger}
}

func (h *PerfilHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/perfiles/me" && r.Method == http.MethodGet:
		h.Me(w, r)
	case path == "/api/v1/perfiles" && r.Method == http.MethodGet:
		h.List(w, r)
	case strings.HasSuffix(path, "/rol") && r.Method == http.MethodPut:
		id, ok := pathTail(strings.TrimSuffix(path, "/rol"), "/api/v1/perfiles/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.UpdateRol(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *PerfilHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.perfil(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PerfilHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	items, err := h.perfiles.ListPerfiles(r.Context())
	if err != nil {
		h.logger.Error("failed to list perfiles", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *PerfilHandler) UpdateRol(w http.ResponseWriter, r *http.Request, id string) {
	caller, ok := h.admin(w, r)
	if !ok {
		return
	}
	// an admin demoting themselves would lock everyone out of user
	// management
	if caller.ID == id {
		writeJSON(w, http.StatusBadRequest, Fail("no puede cambiar su propio rol"))
		return
	}
	var req struct {
		Rol string `json:"rol"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	rol := domain.UserRol(req.Rol)
	if rol != domain.RolAdmin && rol != domain.RolVoluntario {
		writeJSON(w, http.StatusBadRequest, Fail("rol desconocido"))
		return
	}
	if err := h.perfiles.UpdatePerfilRol(r.Context(), id, rol); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail("perfil no encontrado"))
			return
		}
		h.logger.Error("failed to update rol", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
