// Package letterrouter adapts the letter controller to go-router contexts,
// so the same workflow serves Fiber or net/http through one registration.
package letterrouter

import (
	"github.com/goliatone/go-letters/adapters/letterapi"
	"github.com/goliatone/go-letters/letter"
	"github.com/goliatone/go-router"
)

// Config configures the go-router adapter.
type Config = letterapi.Config

// Handler exposes internship letter routes for go-router.
type Handler struct {
	controller *letterapi.Controller
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: letterapi.NewController(cfg)}
}

// RegisterRoutes registers routes on a compatible go-router router.
func (h *Handler) RegisterRoutes(router any) {
	r, ok := router.(routeRegistrar)
	if !ok {
		return
	}
	base := h.basePath()

	r.Post(base, h.Handle)
	r.Post(base+"/", h.Handle)
	r.Get(base, h.Handle)
	r.Get(base+"/", h.Handle)
	r.Get(base+"/reports/:format", h.Handle)
	r.Get(base+"/:id", h.Handle)
	r.Get(base+"/:id/letter", h.Handle)
	r.Get(base+"/:id/permission", h.Handle)
	r.Post(base+"/:id/approve", h.Handle)
	r.Post(base+"/:id/reject", h.Handle)
	r.Post(base+"/:id/generate", h.Handle)
	r.Post(base+"/:id/permission", h.Handle)
}

// Handle executes the shared letter workflow.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		letterapi.WriteError(routerResponse{ctx: c}, letter.NewError(letter.KindInternal, "handler is nil", nil))
		return nil
	}
	h.controller.Serve(routerRequest{ctx: c}, routerResponse{ctx: c})
	return nil
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

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
