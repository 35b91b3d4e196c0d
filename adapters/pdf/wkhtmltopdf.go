package letterpdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/goliatone/go-letters/letter"
)

// WKHTMLTOPDFEngine invokes wkhtmltopdf for HTML-to-PDF conversion.
type WKHTMLTOPDFEngine struct {
	Command   string
	ExtraArgs []string
	Env       []string
	Timeout   time.Duration
}

// Render executes wkhtmltopdf using stdin/stdout for HTML/PDF.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req Request) ([]byte, error) {
	cmdPath := strings.TrimSpace(e.Command)
	if cmdPath == "" {
		cmdPath = "wkhtmltopdf"
	}
	resolved, err := exec.LookPath(cmdPath)
	if err != nil {
		return nil, letter.NewError(letter.KindConverterUnavailable, fmt.Sprintf("%s not found in PATH", cmdPath), err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	cmdCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := buildWKArgs(req.Options)
	args = append(args, e.ExtraArgs...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(cmdCtx, resolved, args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(req.HTML)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			return nil, letter.NewError(letter.KindTimeout, "wkhtmltopdf timed out", err)
		}
		if cmdCtx.Err() == context.Canceled {
			return nil, letter.NewError(letter.KindCanceled, "wkhtmltopdf canceled", err)
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, letter.NewError(letter.KindInternal, message, err)
	}
	return stdout.Bytes(), nil
}

// buildWKArgs maps print options onto wkhtmltopdf flags. Local file access
// stays enabled for file-referenced fonts; wkhtmltopdf has no flag to block
// remote assets, so ExternalAssetsPolicy only applies to the Chromium engine.
func buildWKArgs(opts Options) []string {
	args := []string{"--encoding", "utf-8", "--quiet", "--enable-local-file-access"}
	if opts.PageSize != "" {
		args = append(args, "--page-size", opts.PageSize)
	}
	if opts.Landscape != nil && *opts.Landscape {
		args = append(args, "--orientation", "Landscape")
	}
	if opts.PrintBackground != nil && !*opts.PrintBackground {
		args = append(args, "--no-background")
	}
	if opts.MarginTop != "" {
		args = append(args, "--margin-top", opts.MarginTop)
	}
	if opts.MarginBottom != "" {
		args = append(args, "--margin-bottom", opts.MarginBottom)
	}
	if opts.MarginLeft != "" {
		args = append(args, "--margin-left", opts.MarginLeft)
	}
	if opts.MarginRight != "" {
		args = append(args, "--margin-right", opts.MarginRight)
	}
	if opts.Scale != 0 {
		args = append(args, "--zoom", fmt.Sprintf("%.2f", opts.Scale))
	}
	return args
}
