package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/giygas/bulario-chat/entities"
	"github.com/giygas/bulario-chat/interfaces"
	"github.com/giygas/bulario-chat/logging"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	turns     interfaces.TurnHandler
	lookup    interfaces.MedicationLookup
	health    interfaces.HealthChecker
	validator interfaces.InputValidator
	upgrader  websocket.Upgrader
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	turns interfaces.TurnHandler,
	lookup interfaces.MedicationLookup,
	health interfaces.HealthChecker,
	validator interfaces.InputValidator,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		turns:     turns,
		lookup:    lookup,
		health:    health,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Welcome returns the introduction of the configured chat mode
func (h *HTTPHandlerImpl) Welcome(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.turns.Welcome())
}

// Lookup runs one medication lookup and returns the text shown to users
func (h *HTTPHandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	result, err := h.lookup.Lookup(r.Context(), term)
	if err != nil {
		logging.Debug("Lookup abandoned", "term", term, "error", err)
		return
	}

	code := http.StatusOK
	if result.Outcome == entities.OutcomeInputInvalid {
		code = http.StatusBadRequest
	}
	RespondWithJSON(w, code, result)
}

// HealthCheck reports the service status and the companion API state
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, code := h.health.HealthCheck()

	response := make(map[string]any, len(details)+1)
	for k, v := range details {
		response[k] = v
	}
	response["status"] = status

	RespondWithJSON(w, code, response)
}
