package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/flow"
	"campana-api/internal/service"
)

// LlamadaHandler exposes call sessions and finalized calls. Session
// endpoints are stateful: every transition loads, mutates and re-saves the
// session through the service.
type LlamadaHandler struct {
	*Identity
	llamadas service.LlamadaService
	logger   *zap.Logger
}

func NewLlamadaHandler(identity *Identity, llamadas service.LlamadaService, logger *zap.Logger) *LlamadaHandler {
	return &LlamadaHandler{Identity: identity, llamadas: llamadas, logger: logger}
}

const sesionesPrefix = "/api/v1/llamadas/sesiones/"

func (h *LlamadaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/v1/llamadas/sesiones" && r.Method == http.MethodPost:
		h.StartSession(w, r)
	case path == "/api/v1/llamadas" && r.Method == http.MethodGet:
		h.ListLlamadas(w, r)
	case path == "/api/v1/llamadas" && r.Method == http.MethodPost:
		h.SubmitLlamada(w, r)
	case path == "/api/v1/llamadas/electores" && r.Method == http.MethodGet:
		h.ElectoresParaLlamar(w, r)
	case strings.HasPrefix(path, sesionesPrefix):
		h.serveSession(w, r, strings.TrimPrefix(path, sesionesPrefix))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// serveSession dispatches /sesiones/{id} and /sesiones/{id}/{action}.
func (h *LlamadaHandler) serveSession(w http.ResponseWriter, r *http.Request, rest string) {
	id, action := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		id, action = rest[:i], rest[i+1:]
	}
	if id == "" || strings.Contains(action, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.GetSession(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.DiscardSession(w, r, id)
	case r.Method != http.MethodPost:
		w.WriteHeader(http.StatusMethodNotAllowed)
	case action == "respuesta":
		h.Answer(w, r, id)
	case action == "confirmar-direccion":
		h.ConfirmarDireccion(w, r, id)
	case action == "atras":
		h.Atras(w, r, id)
	case action == "saltar":
		h.Saltar(w, r, id)
	case action == "resultado":
		h.Resultado(w, r, id)
	case action == "finalizar":
		h.Finalizar(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// sessionView is what the call screen renders: the session plus the
// resolved current question.
type sessionView struct {
	*flow.Session
	Pregunta *domain.Pregunta `json:"pregunta,omitempty"`
}

func viewOf(s *flow.Session) sessionView {
	return sessionView{Session: s, Pregunta: s.Current()}
}

func (h *LlamadaHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoPermission):
		writeJSON(w, http.StatusForbidden, Fail(err.Error()))
	case errors.Is(err, service.ErrElectorNotFound), errors.Is(err, flow.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case errors.Is(err, flow.ErrNotCalling),
		errors.Is(err, flow.ErrNotCapturing),
		errors.Is(err, flow.ErrPending),
		errors.Is(err, flow.ErrNoPending),
		errors.Is(err, flow.ErrNoOutcome):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case errors.Is(err, flow.ErrBadOutcome):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		h.logger.Error("llamada request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func (h *LlamadaHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	var req struct {
		ElectorID int `json:"elector_id"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil || req.ElectorID <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail("elector_id requerido"))
		return
	}
	sess, err := h.llamadas.StartSession(r.Context(), perfil, req.ElectorID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(viewOf(sess)))
}

func (h *LlamadaHandler) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	sess, err := h.llamadas.GetSession(r.Context(), perfil, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(viewOf(sess)))
}

func (h *LlamadaHandler) DiscardSession(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	if err := h.llamadas.DiscardSession(r.Context(), perfil, id); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(true))
}

func (h *LlamadaHandler) Answer(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	var req struct {
		Valor string `json:"valor"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	sess, intercepted, err := h.llamadas.Answer(r.Context(), perfil, id, req.Valor)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(struct {
		sessionView
		ConfirmarDireccion bool `json:"confirmar_direccion"`
	}{viewOf(sess), intercepted}))
}

func (h *LlamadaHandler) ConfirmarDireccion(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	var req struct {
		Direccion string `json:"direccion"`
		Skip      bool   `json:"skip"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	sess, err := h.llamadas.ConfirmEnviarLista(r.Context(), perfil, id, strings.TrimSpace(req.Direccion), req.Skip)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(viewOf(sess)))
}

func (h *LlamadaHandler) Atras(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	sess, err := h.llamadas.Back(r.Context(), perfil, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(viewOf(sess)))
}

func (h *LlamadaHandler) Saltar(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	sess, err := h.llamadas.SkipToOutcome(r.Context(), perfil, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(viewOf(sess)))
}

func (h *LlamadaHandler) Resultado(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	var req struct {
		Resultado string `json:"resultado"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	sess, err := h.llamadas.SelectResultado(r.Context(), perfil, id, domain.Resultado(req.Resultado))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(viewOf(sess)))
}

func (h *LlamadaHandler) Finalizar(w http.ResponseWriter, r *http.Request, id string) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	llamadaID, err := h.llamadas.Finalize(r.Context(), perfil, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"llamada_id": llamadaID}))
}

func (h *LlamadaHandler) SubmitLlamada(w http.ResponseWriter, r *http.Request) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	var req service.SubmitLlamadaInput
	if err := readBodyJSON(r, 1<<20, &req); err != nil || req.ElectorID <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail("elector_id requerido"))
		return
	}
	llamadaID, err := h.llamadas.SubmitLlamada(r.Context(), perfil, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]int{"llamada_id": llamadaID}))
}

func (h *LlamadaHandler) ListLlamadas(w http.ResponseWriter, r *http.Request) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)
	items, total, err := h.llamadas.ListLlamadas(r.Context(), perfil, page, size)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(Paged[*domain.LlamadaConDetalles]{Items: items, Total: total}))
}

func (h *LlamadaHandler) ElectoresParaLlamar(w http.ResponseWriter, r *http.Request) {
	perfil, ok := h.perfil(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page := parseInt(q.Get("page"), 1)
	size := parseInt(q.Get("size"), 20)
	items, total, err := h.llamadas.GetElectoresParaLlamar(r.Context(), perfil, page, size)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(Paged[*domain.ElectorConPersona]{Items: items, Total: total}))
}
