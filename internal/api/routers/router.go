package routers

import (
	"net/http"

	"airtime_agent/internal/api/handlers"
	"airtime_agent/internal/tools"

	"github.com/gorilla/mux"
)

func MainRouter(registry *tools.Registry) *mux.Router {
	toolsHandler := handlers.NewToolsHandler(registry)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/tools", toolsHandler.ListTools).Methods(http.MethodGet)
	router.HandleFunc("/tools/{name}", toolsHandler.ExecuteTool).Methods(http.MethodPost)

	return router
}
