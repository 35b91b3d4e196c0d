package query

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-letters/letter"
)

// RequestStatusHandler returns a single request record.
type RequestStatusHandler struct {
	Service letter.Service
}

func NewRequestStatusHandler(svc letter.Service) *RequestStatusHandler {
	return &RequestStatusHandler{Service: svc}
}

func (h *RequestStatusHandler) Query(ctx context.Context, msg RequestStatus) (letter.Request, error) {
	if h == nil || h.Service == nil {
		return letter.Request{}, errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Get(ctx, msg.RequestID)
}

// ListRequestsHandler returns the filtered request register.
type ListRequestsHandler struct {
	Service letter.Service
}

func NewListRequestsHandler(svc letter.Service) *ListRequestsHandler {
	return &ListRequestsHandler{Service: svc}
}

func (h *ListRequestsHandler) Query(ctx context.Context, msg ListRequests) ([]letter.Request, error) {
	if h == nil || h.Service == nil {
		return nil, errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.List(ctx, msg.Filter)
}
