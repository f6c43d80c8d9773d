package handlers

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Endpoint describes one registered path
type Endpoint struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// ListEndpoints walks routes and groups methods by path
func ListEndpoints(routes chi.Routes) ([]Endpoint, error) {
	byPath := make(map[string][]string)
	var order []string

	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if method == http.MethodOptions || method == http.MethodHead {
			return nil
		}
		if _, seen := byPath[route]; !seen {
			order = append(order, route)
		}
		byPath[route] = append(byPath[route], method)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(order)
	endpoints := make([]Endpoint, 0, len(order))
	for _, path := range order {
		methods := byPath[path]
		sort.Strings(methods)
		endpoints = append(endpoints, Endpoint{Path: path, Methods: methods})
	}
	return endpoints, nil
}

// RootHandler answers GET / with the list of registered endpoints
func RootHandler(routes chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoints, err := ListEndpoints(routes)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list endpoints")
			respondError(w, "Could not list endpoints", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, endpoints)
	}
}
