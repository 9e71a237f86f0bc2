package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ayusman/robohand/internal/gesture"
)

// CommandHandler serves the command catalog.
type CommandHandler struct{}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler() *CommandHandler {
	return &CommandHandler{}
}

type commandResponse struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Highlight string `json:"highlight"`
}

type listCommandsResponse struct {
	Commands []commandResponse `json:"commands"`
}

// Register attaches GET /api/commands.
func (h *CommandHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/commands", h.list).Methods(http.MethodGet)
}

func (h *CommandHandler) list(w http.ResponseWriter, r *http.Request) {
	all := gesture.All()
	response := listCommandsResponse{Commands: make([]commandResponse, 0, len(all))}
	for _, c := range all {
		response.Commands = append(response.Commands, commandResponse{
			Name:      c.String(),
			Label:     c.Label(),
			Highlight: c.HighlightID(),
		})
	}
	writeJSON(w, http.StatusOK, response)
}
