package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

// GastoHandler manages campaign expenses. Admin-only, including reads:
// volunteers never see the money.
type GastoHandler struct {
	*Identity
	gastos repository.GastosRepository
	logger *zap.Logger
}

func NewGastoHandler(identity *Identity, gastos repository.GastosRepository, logger *zap.Logger) *GastoHandler {
	return &GastoHandler{Identity: identity, gastos: gastos, logger: logger}
}

func (h *GastoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/gastos" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/gastos" && r.Method == http.MethodPost:
		h.Create(w, r)
	case path == "/api/v1/gastos/totales" && r.Method == http.MethodGet:
		h.Totales(w, r)
	case strings.HasPrefix(path, "/api/v1/gastos/"):
		id, ok := pathID(path, "/api/v1/gastos/")
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

func (h *GastoHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("no encontrado"))
		return
	}
	h.logger.Error("gasto request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}

func validGasto(g *domain.Gasto) string {
	if !domain.ValidGastoRubro(string(g.Rubro)) {
		return "rubro desconocido"
	}
	if g.Monto <= 0 {
		return "monto debe ser positivo"
	}
	if g.Fecha.IsZero() {
		return "fecha requerida"
	}
	return ""
}

func (h *GastoHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	rubro := r.URL.Query().Get("rubro")
	if rubro != "" && !domain.ValidGastoRubro(rubro) {
		writeJSON(w, http.StatusBadRequest, Fail("rubro desconocido"))
		return
	}
	items, err := h.gastos.ListGastos(r.Context(), rubro)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *GastoHandler) Totales(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	totals, err := h.gastos.TotalsByRubro(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(totals))
}

func (h *GastoHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.Gasto
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if msg := validGasto(&in); msg != "" {
		writeJSON(w, http.StatusBadRequest, Fail(msg))
		return
	}
	id, err := h.gastos.CreateGasto(r.Context(), &in)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *GastoHandler) Update(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var in domain.Gasto
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if msg := validGasto(&in); msg != "" {
		writeJSON(w, http.StatusBadRequest, Fail(msg))
		return
	}
	if err := h.gastos.UpdateGasto(r.Context(), id, &in); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *GastoHandler) Delete(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.gastos.DeleteGasto(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
