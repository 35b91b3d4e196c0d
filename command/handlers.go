package command

import (
	"bytes"
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-letters/letter"
)

// SubmitRequestHandler handles request submissions.
type SubmitRequestHandler struct {
	Service letter.Service
}

func NewSubmitRequestHandler(svc letter.Service) *SubmitRequestHandler {
	return &SubmitRequestHandler{Service: svc}
}

func (h *SubmitRequestHandler) Execute(ctx context.Context, msg SubmitRequest) error {
	if h == nil || h.Service == nil {
		return errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	record, err := h.Service.Submit(ctx, msg.Submission)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	if res := gcmd.ResultFromContext[letter.Request](ctx); res != nil {
		res.Store(record)
	}
	return nil
}

// ApproveRequestHandler approves pending requests.
type ApproveRequestHandler struct {
	Service letter.Service
}

func NewApproveRequestHandler(svc letter.Service) *ApproveRequestHandler {
	return &ApproveRequestHandler{Service: svc}
}

func (h *ApproveRequestHandler) Execute(ctx context.Context, msg ApproveRequest) error {
	if h == nil || h.Service == nil {
		return errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	record, err := h.Service.Approve(ctx, msg.Actor, msg.RequestID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	if res := gcmd.ResultFromContext[letter.Request](ctx); res != nil {
		res.Store(record)
	}
	return nil
}

// RejectRequestHandler rejects pending requests.
type RejectRequestHandler struct {
	Service letter.Service
}

func NewRejectRequestHandler(svc letter.Service) *RejectRequestHandler {
	return &RejectRequestHandler{Service: svc}
}

func (h *RejectRequestHandler) Execute(ctx context.Context, msg RejectRequest) error {
	if h == nil || h.Service == nil {
		return errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	record, err := h.Service.Reject(ctx, msg.Actor, msg.RequestID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	if res := gcmd.ResultFromContext[letter.Request](ctx); res != nil {
		res.Store(record)
	}
	return nil
}

// GenerateLetterHandler renders letters on demand.
type GenerateLetterHandler struct {
	Service letter.Service
}

func NewGenerateLetterHandler(svc letter.Service) *GenerateLetterHandler {
	return &GenerateLetterHandler{Service: svc}
}

func (h *GenerateLetterHandler) Execute(ctx context.Context, msg GenerateLetter) error {
	if h == nil || h.Service == nil {
		return errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	record, err := h.Service.Generate(ctx, msg.Actor, msg.RequestID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	if res := gcmd.ResultFromContext[letter.Request](ctx); res != nil {
		res.Store(record)
	}
	return nil
}

// AttachPermissionHandler stores uploaded permission letters.
type AttachPermissionHandler struct {
	Service letter.Service
}

func NewAttachPermissionHandler(svc letter.Service) *AttachPermissionHandler {
	return &AttachPermissionHandler{Service: svc}
}

func (h *AttachPermissionHandler) Execute(ctx context.Context, msg AttachPermission) error {
	if h == nil || h.Service == nil {
		return errors.New("letter service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	record, err := h.Service.AttachPermission(ctx, msg.RequestID, msg.Filename, bytes.NewReader(msg.Content))
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	if res := gcmd.ResultFromContext[letter.Request](ctx); res != nil {
		res.Store(record)
	}
	return nil
}
