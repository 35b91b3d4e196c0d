package letter

import (
	"context"
	"io"
	"time"
)

// Status is the review state of an internship request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether from may move to to. Pending may move to
// Approved or Rejected; Approved and Rejected are terminal.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from.Terminal() {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

// DateLayout is the wire format for duration dates.
const DateLayout = "2006-01-02"

// IssuedDateLayout is the day-month-year format printed on the letter.
const IssuedDateLayout = "02-01-2006"

// Request is one internship request record.
type Request struct {
	ID              string    `json:"id"`
	StudentName     string    `json:"student_name"`
	CollegeName     string    `json:"college_name"`
	Course          string    `json:"course"`
	DurationStart   time.Time `json:"duration_start"`
	DurationEnd     time.Time `json:"duration_end"`
	ReferenceNumber string    `json:"reference_number"`
	Email           string    `json:"email,omitempty"`
	Status          Status    `json:"status"`
	PermissionKey   string    `json:"permission_key,omitempty"`
	LetterKey       string    `json:"letter_key,omitempty"`
	IssuedAt        time.Time `json:"issued_at,omitzero"`
	GeneratedAt     time.Time `json:"generated_at,omitzero"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Submission carries the raw form fields of a new request.
type Submission struct {
	StudentName     string `json:"student_name"`
	CollegeName     string `json:"college_name"`
	Course          string `json:"course"`
	DurationStart   string `json:"duration_start"`
	DurationEnd     string `json:"duration_end"`
	ReferenceNumber string `json:"reference_number"`
	Email           string `json:"email,omitempty"`
	IdempotencyKey  string `json:"idempotency_key,omitempty"`
}

// Filter narrows request listings.
type Filter struct {
	Status Status
	Since  time.Time
	Until  time.Time
}

// Store persists internship requests. Update replaces the whole record so
// readers never observe a partially written one.
type Store interface {
	Create(ctx context.Context, record Request) error
	Get(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter Filter) ([]Request, error)
	Update(ctx context.Context, record Request) error
}

// GenerationPolicy decides which statuses may produce a PDF. Rejected is
// always refused regardless of policy.
type GenerationPolicy struct {
	AllowPending bool
}

// Admits reports whether a request in the given status may generate a letter.
func (p GenerationPolicy) Admits(status Status) bool {
	switch status {
	case StatusApproved:
		return true
	case StatusPending:
		return p.AllowPending
	default:
		return false
	}
}

// Letter is the validated view of a request handed to the renderer.
type Letter struct {
	Request  Request
	IssuedOn string
	Year     int
}

// Renderer produces the self-contained HTML letter for a request.
type Renderer interface {
	RenderLetter(ctx context.Context, req Request) ([]byte, error)
}

// Converter turns rendered markup into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, markup []byte) ([]byte, error)
}

// ConverterFunc adapts a function to a Converter.
type ConverterFunc func(ctx context.Context, markup []byte) ([]byte, error)

func (f ConverterFunc) Convert(ctx context.Context, markup []byte) ([]byte, error) {
	if f == nil {
		return nil, NewError(KindNotImpl, "converter not configured", nil)
	}
	return f(ctx, markup)
}

// ArtifactMeta captures stored artifact metadata.
type ArtifactMeta struct {
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	Filename    string    `json:"filename,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// ArtifactRef references a stored artifact.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactStore stores generated letters and uploaded permission files.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// ChangeEvent describes request lifecycle events.
type ChangeEvent struct {
	Name      string
	RequestID string
	Status    Status
	Actor     string
	Timestamp time.Time
	Metadata  map[string]any
}

// Lifecycle event names emitted by the service.
const (
	EventSubmitted = "letter.submitted"
	EventApproved  = "letter.approved"
	EventRejected  = "letter.rejected"
	EventGenerated = "letter.generated"
)

// ChangeEmitter observes lifecycle events. Emit failures are logged, never
// surfaced to callers.
type ChangeEmitter interface {
	Emit(ctx context.Context, evt ChangeEvent) error
}
