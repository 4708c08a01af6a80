// Package web serves the console's views behind a static route table.
package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bankdesk/bank-console/internal/logger"
)

// Route binds one path to one view.
type Route struct {
	Name    string
	Path    string
	Methods []string
	Handler http.Handler
}

// RouteTransactionList is the name of the root route.
const RouteTransactionList = "transaction-list"

// Routes returns the application's route table: the root path shows the transaction list.
func Routes(list *ListView) []Route {
	return []Route{
		{
			Name:    RouteTransactionList,
			Path:    "/",
			Methods: []string{http.MethodGet},
			Handler: list,
		},
	}
}

// NewRouter registers routes on a gorilla/mux router with request-id and access logging.
func NewRouter(routes []Route, log logger.Logger) *mux.Router {
	if log == nil {
		log = logger.NopLogger{}
	}

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware(log))

	paths := make([]string, 0, len(routes))
	for _, rt := range routes {
		r := router.Handle(rt.Path, rt.Handler).Name(rt.Name)
		if len(rt.Methods) > 0 {
			r.Methods(rt.Methods...)
		}
		paths = append(paths, rt.Path)
	}

	log.InfoObj("routes registered", "routes", paths)
	return router
}
