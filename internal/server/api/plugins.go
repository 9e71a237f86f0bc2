package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/robohand/internal/plugin"
)

// PluginHandler lists discovered plugins.
type PluginHandler struct {
	plugins *plugin.Manager
}

// NewPluginHandler creates a PluginHandler over m.
func NewPluginHandler(m *plugin.Manager) *PluginHandler {
	return &PluginHandler{plugins: m}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

type listPluginsResponse struct {
	Plugins []pluginResponse `json:"plugins"`
}

// Register attaches GET /api/plugins.
func (h *PluginHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/plugins", h.list).Methods(http.MethodGet)
}

func (h *PluginHandler) list(w http.ResponseWriter, r *http.Request) {
	plugins := h.plugins.List()
	response := listPluginsResponse{Plugins: make([]pluginResponse, 0, len(plugins))}
	for _, p := range plugins {
		actions := p.Manifest.Actions
		if actions == nil {
			actions = []string{}
		}
		response.Plugins = append(response.Plugins, pluginResponse{
			Name:        p.Manifest.Name,
			Version:     p.Manifest.Version,
			Description: p.Manifest.Description,
			Actions:     actions,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
