// Package letterhttp serves the letter API over net/http. It wraps the
// shared letterapi controller in stdlib request and response adapters.
package letterhttp

import (
	"net/http"

	"github.com/goliatone/go-letters/adapters/letterapi"
	"github.com/goliatone/go-letters/letter"
)

// Config configures the HTTP adapter.
type Config = letterapi.Config

// Handler exposes letter HTTP endpoints.
type Handler struct {
	controller *letterapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: letterapi.NewController(cfg)}
}

// RegisterRoutes registers handlers on a compatible router.
func (h *Handler) RegisterRoutes(router any) {
	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		r.Handle(h.basePath(), h)
		r.Handle(h.basePath()+"/", h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc(h.basePath(), h.ServeHTTP)
		r.HandleFunc(h.basePath()+"/", h.ServeHTTP)
	}
}

// ServeHTTP routes letter endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		letterapi.WriteError(httpResponse{w: w}, letter.NewError(letter.KindInternal, "handler is nil", nil))
		return
	}
	h.controller.Serve(httpRequest{r: r}, httpResponse{w: w, req: r})
}

func (h *Handler) basePath() string {
	if h == nil || h.controller == nil {
		return "/requests"
	}
	path := h.controller.BasePath()
	if path == "" {
		return "/requests"
	}
	return path
}
