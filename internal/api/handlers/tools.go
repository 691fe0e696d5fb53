package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"airtime_agent/internal/tools"
	"airtime_agent/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type ToolsHandler struct {
	registry *tools.Registry
}

func NewToolsHandler(registry *tools.Registry) *ToolsHandler {
	return &ToolsHandler{registry: registry}
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ListTools returns the registered tools with their parameter schemas.
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	listed := h.registry.List()
	infos := make([]toolInfo, 0, len(listed))
	for _, tool := range listed {
		infos = append(infos, toolInfo{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}

	response := struct {
		Status string     `json:"status"`
		Count  int        `json:"count"`
		Data   []toolInfo `json:"data"`
	}{
		Status: "success",
		Count:  len(infos),
		Data:   infos,
	}

	utils.WriteJSON(w, response)
}

// ExecuteTool dispatches a tool invocation. The body is a JSON object of
// arguments; an empty body means no arguments.
func (h *ToolsHandler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tool, ok := h.registry.Get(name)
	if !ok {
		utils.WriteError(w, "unknown tool: "+name, http.StatusNotFound)
		return
	}

	args := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		utils.WriteError(w, "invalid arguments payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	requestID := uuid.NewString()
	logEntry := utils.Logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"tool":       name,
	})
	logEntry.Info("tool invocation started")

	result, err := tool.Execute(r.Context(), args)
	if err != nil {
		logEntry.WithError(err).Warn("tool invocation rejected")
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logEntry.Info("tool invocation finished")

	response := struct {
		Status    string `json:"status"`
		RequestID string `json:"request_id"`
		Result    string `json:"result"`
	}{
		Status:    "success",
		RequestID: requestID,
		Result:    result,
	}

	utils.WriteJSON(w, response)
}
