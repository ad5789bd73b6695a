package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux; the handlers do their own
// method/path dispatch, so no third-party router is needed.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterLlamadaRoutes(h *LlamadaHandler) {
	r.Handle("/api/v1/llamadas", h)
	r.Handle("/api/v1/llamadas/", h)
}

func (r *Router) RegisterFlowConfigRoutes(h *FlowConfigHandler) {
	r.Handle("/api/v1/flow/", h)
}

func (r *Router) RegisterElectorRoutes(h *ElectorHandler) {
	r.Handle("/api/v1/electores", h)
	r.Handle("/api/v1/electores/", h)
	r.Handle("/api/v1/cartas", h)
	r.Handle("/api/v1/cartas/", h)
}

func (r *Router) RegisterPersonaRoutes(h *PersonaHandler) {
	r.Handle("/api/v1/personas", h)
	r.Handle("/api/v1/personas/", h)
}

func (r *Router) RegisterListaRoutes(h *ListaHandler) {
	r.Handle("/api/v1/lista/", h)
}

func (r *Router) RegisterGastoRoutes(h *GastoHandler) {
	r.Handle("/api/v1/gastos", h)
	r.Handle("/api/v1/gastos/", h)
}

func (r *Router) RegisterEventoRoutes(h *EventoHandler) {
	r.Handle("/api/v1/eventos", h)
	r.Handle("/api/v1/eventos/", h)
}

func (r *Router) RegisterPerfilRoutes(h *PerfilHandler) {
	r.Handle("/api/v1/perfiles", h)
	r.Handle("/api/v1/perfiles/", h)
}

func (r *Router) RegisterCampanaRoutes(h *CampanaHandler) {
	r.Handle("/api/v1/campanas", h)
	r.Handle("/api/v1/campanas/", h)
}

func (r *Router) RegisterHealth() {
	r.mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Ok("ok"))
	})
}
