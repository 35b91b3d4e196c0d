package letterpdf

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/goliatone/go-letters/letter"
)

// DefaultMaxHTMLBytes guards in-memory HTML buffering before PDF conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// External asset policies applied during conversion.
const (
	ExternalAssetsBlock = "block"
	ExternalAssetsAllow = "allow"
)

// Options control the printed page.
type Options struct {
	PageSize             string
	Landscape            *bool
	PrintBackground      *bool
	Scale                float64
	MarginTop            string
	MarginBottom         string
	MarginLeft           string
	MarginRight          string
	PreferCSSPageSize    *bool
	BaseURL              string
	ExternalAssetsPolicy string
}

// DefaultOptions prints an A4 portrait page with letterhead margins.
func DefaultOptions() Options {
	return Options{
		PageSize:             "A4",
		PrintBackground:      boolPtr(true),
		MarginTop:            "20mm",
		MarginBottom:         "20mm",
		MarginLeft:           "15mm",
		MarginRight:          "15mm",
		ExternalAssetsPolicy: ExternalAssetsBlock,
	}
}

// Request contains HTML input and print options for PDF engines.
type Request struct {
	HTML    []byte
	Options Options
}

// Engine renders HTML content into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req Request) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req Request) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req Request) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// Converter adapts an Engine to letter.Converter. The zero value is not
// usable; an Engine must be set.
type Converter struct {
	Engine       Engine
	Options      Options
	Timeout      time.Duration
	MaxHTMLBytes int64
}

var _ letter.Converter = Converter{}

// Convert renders markup to PDF through the engine.
func (c Converter) Convert(ctx context.Context, markup []byte) ([]byte, error) {
	if c.Engine == nil {
		return nil, letter.NewError(letter.KindNotImpl, "pdf engine not configured", nil)
	}
	if len(markup) == 0 {
		return nil, letter.NewError(letter.KindValidation, "conversion input is empty", nil)
	}
	maxBytes := c.MaxHTMLBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxHTMLBytes
	}
	if int64(len(markup)) > maxBytes {
		return nil, letter.NewError(letter.KindValidation, "conversion input exceeds max html bytes", nil)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	pdf, err := c.Engine.Render(ctx, Request{
		HTML:    markup,
		Options: mergeOptions(DefaultOptions(), c.Options),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(pdf) == 0 {
		return nil, letter.NewError(letter.KindInternal, "pdf engine produced no output", nil)
	}
	return pdf, nil
}

// classify maps engine failures onto letter error kinds. Deadline failures
// become timeouts so the caller can retry the conversion.
func classify(err error) error {
	var letterErr *letter.Error
	if errors.As(err, &letterErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return letter.NewError(letter.KindTimeout, "pdf conversion timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return letter.NewError(letter.KindCanceled, "pdf conversion canceled", err)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return letter.NewError(letter.KindConverterUnavailable, "pdf engine binary not found", err)
	}
	return letter.NewError(letter.KindInternal, "pdf conversion failed", err)
}

func mergeOptions(base, override Options) Options {
	merged := base
	if override.PageSize != "" {
		merged.PageSize = override.PageSize
	}
	if override.Landscape != nil {
		merged.Landscape = override.Landscape
	}
	if override.PrintBackground != nil {
		merged.PrintBackground = override.PrintBackground
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.MarginTop != "" {
		merged.MarginTop = override.MarginTop
	}
	if override.MarginBottom != "" {
		merged.MarginBottom = override.MarginBottom
	}
	if override.MarginLeft != "" {
		merged.MarginLeft = override.MarginLeft
	}
	if override.MarginRight != "" {
		merged.MarginRight = override.MarginRight
	}
	if override.PreferCSSPageSize != nil {
		merged.PreferCSSPageSize = override.PreferCSSPageSize
	}
	if override.BaseURL != "" {
		merged.BaseURL = override.BaseURL
	}
	if override.ExternalAssetsPolicy != "" {
		merged.ExternalAssetsPolicy = override.ExternalAssetsPolicy
	}
	return merged
}

func boolPtr(value bool) *bool {
	return &value
}
