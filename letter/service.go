package letter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service coordinates submissions, review, and letter generation.
type Service interface {
	Submit(ctx context.Context, sub Submission) (Request, error)
	Get(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
	Approve(ctx context.Context, actor, id string) (Request, error)
	Reject(ctx context.Context, actor, id string) (Request, error)
	Generate(ctx context.Context, actor, id string) (Request, error)
	OpenLetter(ctx context.Context, id string) (io.ReadCloser, ArtifactMeta, error)
	AttachPermission(ctx context.Context, id, filename string, r io.Reader) (Request, error)
	OpenPermission(ctx context.Context, id string) (io.ReadCloser, ArtifactMeta, error)
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Store     Store
	Artifacts ArtifactStore
	Renderer  Renderer
	Converter Converter
	Policy    GenerationPolicy
	Emitter   ChangeEmitter
	Logger    Logger
	Now       func() time.Time
	IDGen     func() string
}

type service struct {
	store     Store
	artifacts ArtifactStore
	renderer  Renderer
	converter Converter
	policy    GenerationPolicy
	emitter   ChangeEmitter
	logger    Logger
	now       func() time.Time
	idGen     func() string
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) Service {
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = uuid.NewString
	}

	return &service{
		store:     store,
		artifacts: cfg.Artifacts,
		renderer:  cfg.Renderer,
		converter: cfg.Converter,
		policy:    cfg.Policy,
		emitter:   cfg.Emitter,
		logger:    logger,
		now:       nowFn,
		idGen:     idGen,
	}
}

// Submit validates the submission and persists it as Pending.
func (s *service) Submit(ctx context.Context, sub Submission) (Request, error) {
	if s == nil {
		return Request{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}

	record, err := ResolveSubmission(sub)
	if err != nil {
		return Request{}, AsGoError(err)
	}

	now := s.now()
	record.ID = s.idGen()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := s.store.Create(ctx, record); err != nil {
		return Request{}, AsGoError(err)
	}

	s.emit(ctx, ChangeEvent{
		Name:      EventSubmitted,
		RequestID: record.ID,
		Status:    record.Status,
		Timestamp: now,
		Metadata:  map[string]any{"reference_number": record.ReferenceNumber},
	})
	return record, nil
}

// Get returns a request by ID.
func (s *service) Get(ctx context.Context, id string) (Request, error) {
	if s == nil {
		return Request{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, AsGoError(err)
	}
	return record, nil
}

// List returns requests matching a filter, newest first.
func (s *service) List(ctx context.Context, filter Filter) ([]Request, error) {
	if s == nil {
		return nil, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, AsGoError(err)
	}
	return records, nil
}

// Approve transitions a Pending request to Approved, freezes the issue date,
// and generates the letter. When generation fails the approval stands: the
// returned record is Approved and the error describes the generation failure.
func (s *service) Approve(ctx context.Context, actor, id string) (Request, error) {
	if s == nil {
		return Request{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, AsGoError(err)
	}
	if !CanTransition(record.Status, StatusApproved) {
		return record, AsGoError(NewError(KindPolicy, fmt.Sprintf("request %q is already %s", id, record.Status), nil))
	}

	now := s.now()
	record.Status = StatusApproved
	record.IssuedAt = now
	record.UpdatedAt = now
	if err := s.store.Update(ctx, record); err != nil {
		return Request{}, AsGoError(err)
	}

	s.emit(ctx, ChangeEvent{
		Name:      EventApproved,
		RequestID: record.ID,
		Status:    record.Status,
		Actor:     actor,
		Timestamp: now,
	})

	generated, genErr := s.generate(ctx, actor, record)
	if genErr != nil {
		s.logger.Errorf("letter generation failed for %s: %v", record.ID, genErr)
		return record, AsGoError(genErr)
	}
	return generated, nil
}

// Reject transitions a Pending request to Rejected and discards any letter.
func (s *service) Reject(ctx context.Context, actor, id string) (Request, error) {
	if s == nil {
		return Request{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, AsGoError(err)
	}
	if !CanTransition(record.Status, StatusRejected) {
		return record, AsGoError(NewError(KindPolicy, fmt.Sprintf("request %q is already %s", id, record.Status), nil))
	}

	now := s.now()
	if record.LetterKey != "" && s.artifacts != nil {
		if err := s.artifacts.Delete(ctx, record.LetterKey); err != nil {
			s.logger.Errorf("letter artifact delete failed for %s: %v", record.ID, err)
		}
	}
	record.Status = StatusRejected
	record.LetterKey = ""
	record.UpdatedAt = now
	if err := s.store.Update(ctx, record); err != nil {
		return Request{}, AsGoError(err)
	}

	s.emit(ctx, ChangeEvent{
		Name:      EventRejected,
		RequestID: record.ID,
		Status:    record.Status,
		Actor:     actor,
		Timestamp: now,
	})
	return record, nil
}

// Generate renders, converts, and stores the letter for a request the policy
// admits.
func (s *service) Generate(ctx context.Context, actor, id string) (Request, error) {
	if s == nil {
		return Request{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, AsGoError(err)
	}
	generated, err := s.generate(ctx, actor, record)
	if err != nil {
		return Request{}, AsGoError(err)
	}
	return generated, nil
}

// OpenLetter serves the stored PDF, generating it first when absent and the
// policy admits the record's status.
func (s *service) OpenLetter(ctx context.Context, id string) (io.ReadCloser, ArtifactMeta, error) {
	if s == nil {
		return nil, ArtifactMeta{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	if s.artifacts == nil {
		return nil, ArtifactMeta{}, AsGoError(NewError(KindNotImpl, "artifact store not configured", nil))
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, ArtifactMeta{}, AsGoError(err)
	}

	if record.LetterKey != "" {
		rc, meta, err := s.artifacts.Open(ctx, record.LetterKey)
		if err == nil {
			return rc, meta, nil
		}
		if KindFromError(err) != KindNotFound {
			return nil, ArtifactMeta{}, AsGoError(err)
		}
	}

	generated, err := s.generate(ctx, "", record)
	if err != nil {
		return nil, ArtifactMeta{}, AsGoError(err)
	}
	rc, meta, err := s.artifacts.Open(ctx, generated.LetterKey)
	if err != nil {
		return nil, ArtifactMeta{}, AsGoError(err)
	}
	return rc, meta, nil
}

// AttachPermission stores an uploaded permission letter for a request. Only
// PDF uploads are accepted.
func (s *service) AttachPermission(ctx context.Context, id, filename string, r io.Reader) (Request, error) {
	if s == nil {
		return Request{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	if s.artifacts == nil {
		return Request{}, AsGoError(NewError(KindNotImpl, "artifact store not configured", nil))
	}
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return Request{}, AsGoError(NewMissingFieldError("permission"))
	}
	if !strings.EqualFold(path.Ext(filename), ".pdf") {
		return Request{}, AsGoError(NewError(KindValidation, "permission letter must be a PDF", nil))
	}

	record, err := s.store.Get(ctx, id)
	if err != nil {
		return Request{}, AsGoError(err)
	}

	now := s.now()
	key := permissionKey(record.ID)
	if _, err := s.artifacts.Put(ctx, key, r, ArtifactMeta{
		ContentType: "application/pdf",
		Filename:    filename,
		CreatedAt:   now,
	}); err != nil {
		return Request{}, AsGoError(err)
	}

	record.PermissionKey = key
	record.UpdatedAt = now
	if err := s.store.Update(ctx, record); err != nil {
		return Request{}, AsGoError(err)
	}
	return record, nil
}

// OpenPermission serves the stored permission upload.
func (s *service) OpenPermission(ctx context.Context, id string) (io.ReadCloser, ArtifactMeta, error) {
	if s == nil {
		return nil, ArtifactMeta{}, AsGoError(NewError(KindInternal, "service is nil", nil))
	}
	if s.artifacts == nil {
		return nil, ArtifactMeta{}, AsGoError(NewError(KindNotImpl, "artifact store not configured", nil))
	}
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, ArtifactMeta{}, AsGoError(err)
	}
	if record.PermissionKey == "" {
		return nil, ArtifactMeta{}, AsGoError(NewError(KindNotFound, fmt.Sprintf("request %q has no permission letter", id), nil))
	}
	rc, meta, err := s.artifacts.Open(ctx, record.PermissionKey)
	if err != nil {
		return nil, ArtifactMeta{}, AsGoError(err)
	}
	return rc, meta, nil
}

func (s *service) generate(ctx context.Context, actor string, record Request) (Request, error) {
	if s.renderer == nil {
		return Request{}, NewError(KindNotImpl, "letter renderer not configured", nil)
	}
	if s.converter == nil {
		return Request{}, NewError(KindNotImpl, "document converter not configured", nil)
	}
	if s.artifacts == nil {
		return Request{}, NewError(KindNotImpl, "artifact store not configured", nil)
	}
	if record.Status == StatusRejected {
		return Request{}, NewError(KindPolicy, fmt.Sprintf("request %q is rejected; no letter may be generated", record.ID), nil)
	}
	if !s.policy.Admits(record.Status) {
		return Request{}, NewError(KindPolicy, fmt.Sprintf("letter generation not permitted while %s", record.Status), nil)
	}

	markup, err := s.renderer.RenderLetter(ctx, record)
	if err != nil {
		return Request{}, err
	}

	pdf, err := s.convert(ctx, record.ID, markup)
	if err != nil {
		return Request{}, err
	}

	now := s.now()
	key := letterKey(record.ID)
	if _, err := s.artifacts.Put(ctx, key, bytes.NewReader(pdf), ArtifactMeta{
		ContentType: "application/pdf",
		Filename:    LetterFilename(record),
		CreatedAt:   now,
	}); err != nil {
		return Request{}, err
	}

	record.LetterKey = key
	if record.GeneratedAt.IsZero() {
		record.GeneratedAt = now
	}
	record.UpdatedAt = now
	if err := s.store.Update(ctx, record); err != nil {
		return Request{}, err
	}

	s.emit(ctx, ChangeEvent{
		Name:      EventGenerated,
		RequestID: record.ID,
		Status:    record.Status,
		Actor:     actor,
		Timestamp: now,
		Metadata:  map[string]any{"letter_key": key},
	})
	return record, nil
}

// convert runs the converter with a single retry when the first attempt
// timed out. Conversion has no side effects, so the retry is safe.
func (s *service) convert(ctx context.Context, id string, markup []byte) ([]byte, error) {
	pdf, err := s.converter.Convert(ctx, markup)
	if err == nil {
		return pdf, nil
	}
	if KindFromError(err) != KindTimeout {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, err
	}

	s.logger.Infof("conversion timed out for %s, retrying once", id)
	pdf, retryErr := s.converter.Convert(ctx, markup)
	if retryErr != nil {
		return nil, retryErr
	}
	return pdf, nil
}

func (s *service) emit(ctx context.Context, evt ChangeEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(ctx, evt); err != nil {
		s.logger.Errorf("change event %s failed: %v", evt.Name, err)
	}
}

// LetterFilename is the download filename for a request's letter.
func LetterFilename(record Request) string {
	return fmt.Sprintf("offer_%s.pdf", record.ID)
}

func letterKey(id string) string {
	return fmt.Sprintf("letters/%s.pdf", id)
}

func permissionKey(id string) string {
	return fmt.Sprintf("permissions/%s.pdf", id)
}
