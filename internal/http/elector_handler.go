package httpapi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/service"
)

// ElectorHandler exposes elector CRUD, the spreadsheet import/export and
// the cartas (envelope) queue.
type ElectorHandler struct {
	*Identity
	electores service.ElectorService
	logger    *zap.Logger
}

func NewElectorHandler(identity *Identity, electores service.ElectorService, logger *zap.Logger) *ElectorHandler {
	return &ElectorHandler{Identity: identity, electores: electores, logger: logger}
}

func (h *ElectorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/electores" && r.Method == http.MethodGet:
		h.List(w, r)
	case path == "/api/v1/electores" && r.Method == http.MethodPost:
		h.Create(w, r)
	case path == "/api/v1/electores/import" && r.Method == http.MethodPost:
		h.Import(w, r)
	case path == "/api/v1/electores/export" && r.Method == http.MethodGet:
		h.ExportXLSX(w, r)
	case path == "/api/v1/electores/export.csv" && r.Method == http.MethodGet:
		h.ExportCSV(w, r)
	case path == "/api/v1/cartas" && r.Method == http.MethodGet:
		h.ListCartas(w, r)
	case strings.HasSuffix(path, "/enviado") && r.Method == http.MethodPost:
		if id, ok := pathID(strings.TrimSuffix(path, "/enviado"), "/api/v1/cartas/"); ok {
			h.MarcarEnviado(w, r, id)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case strings.HasPrefix(path, "/api/v1/electores/"):
		id, ok := pathID(path, "/api/v1/electores/")
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

func (h *ElectorHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoPermission):
		writeJSON(w, http.StatusForbidden, Fail(err.Error()))
	case errors.Is(err, service.ErrElectorNotFound):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, service.ErrInvalidElector):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		h.logger.Error("elector request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func (h *ElectorHandler) List(w http.ResponseWriter, r *http.Request) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	items, total, err := h.electores.ListElectores(r.Context(), perfil, service.ListElectoresRequest{
		Estado: q.Get("estado"),
		Search: q.Get("search"),
		Page:   parseInt(q.Get("page"), 1),
		Size:   parseInt(q.Get("size"), 20),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(Paged[*domain.ElectorConPersona]{Items: items, Total: total}))
}

func (h *ElectorHandler) Get(w http.ResponseWriter, r *http.Request, id int) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	e, err := h.electores.GetElector(r.Context(), perfil, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(e))
}

func (h *ElectorHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.CreateElectorInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	id, err := h.electores.CreateElector(r.Context(), input)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"id": id}))
}

func (h *ElectorHandler) Update(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	var input service.UpdateElectorInput
	if err := readBodyJSON(r, 1<<20, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	if err := h.electores.UpdateElector(r.Context(), id, input); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *ElectorHandler) Delete(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.electores.DeleteElector(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *ElectorHandler) Import(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("failed to parse form"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("file not found in request"))
		return
	}
	defer file.Close()

	rows, err := ParseElectorImport(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(fmt.Sprintf("invalid workbook: %v", err)))
		return
	}
	created, skipped, err := h.electores.ImportElectores(r.Context(), rows)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{
		"total":   len(rows),
		"created": created,
		"skipped": skipped,
	}))
}

// exportItems loads every elector visible to the caller, unpaginated.
func (h *ElectorHandler) exportItems(w http.ResponseWriter, r *http.Request) ([]*domain.ElectorConPersona, bool) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return nil, false
	}
	items, _, err := h.electores.ListElectores(r.Context(), perfil, service.ListElectoresRequest{
		Estado: r.URL.Query().Get("estado"),
		Page:   1,
		Size:   100000,
	})
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return items, true
}

func (h *ElectorHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	items, ok := h.exportItems(w, r)
	if !ok {
		return
	}
	data, err := GenerateElectorExport(items)
	if err != nil {
		h.logger.Error("elector export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=electores.xlsx")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *ElectorHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	items, ok := h.exportItems(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=electores.csv")
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(electorHeader)
	for _, item := range items {
		_ = cw.Write([]string{
			item.Persona.Cedula,
			item.Persona.Nombre,
			item.Persona.NroSocio,
			item.Persona.Telefono,
			item.Persona.Celular,
			item.Persona.Email,
			item.Persona.Direccion,
			string(item.Estado),
		})
	}
	cw.Flush()
}

func (h *ElectorHandler) ListCartas(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	items, err := h.electores.ListParaEnviar(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *ElectorHandler) MarcarEnviado(w http.ResponseWriter, r *http.Request, id int) {
	if _, ok := h.admin(w, r); !ok {
		return
	}
	if err := h.electores.MarkSobreEnviado(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}
