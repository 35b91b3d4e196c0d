// Package letterapi exposes the internship letter service over a small
// transport-agnostic controller. Transports adapt their request and
// response types to the Request and Response interfaces and delegate
// routing to Controller.Serve.
package letterapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-letters/letter"
	"github.com/goliatone/go-letters/letter/report"
)

// DefaultMaxBufferBytes is the fallback buffer limit when streaming is unavailable.
const DefaultMaxBufferBytes int64 = 8 * 1024 * 1024

// ActorProvider resolves the acting user from the request context.
type ActorProvider interface {
	FromContext(ctx context.Context) (string, error)
}

// Config configures the shared letter API controller.
type Config struct {
	Service          letter.Service
	Artifacts        letter.ArtifactStore
	ActorProvider    ActorProvider
	BasePath         string
	SignedURLTTL     time.Duration
	IdempotencyStore IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           letter.Logger
	Decoder          SubmissionDecoder
	MaxBufferBytes   int64
}

// Controller exposes letter API handlers for multiple transports.
type Controller struct {
	service          letter.Service
	artifacts        letter.ArtifactStore
	actorProvider    ActorProvider
	basePath         string
	signedURLTTL     time.Duration
	idempotencyStore IdempotencyStore
	idempotencyTTL   time.Duration
	logger           letter.Logger
	decoder          SubmissionDecoder
	maxBufferBytes   int64
}

// NewController creates a shared letter API controller.
func NewController(cfg Config) *Controller {
	basePath := strings.TrimRight(cfg.BasePath, "/")
	if basePath == "" {
		basePath = "/requests"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = letter.NopLogger{}
	}
	decoder := cfg.Decoder
	if decoder == nil {
		decoder = FormRequestDecoder{}
	}
	maxBuffer := cfg.MaxBufferBytes
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxBufferBytes
	}
	return &Controller{
		service:          cfg.Service,
		artifacts:        cfg.Artifacts,
		actorProvider:    cfg.ActorProvider,
		basePath:         basePath,
		signedURLTTL:     cfg.SignedURLTTL,
		idempotencyStore: cfg.IdempotencyStore,
		idempotencyTTL:   cfg.IdempotencyTTL,
		logger:           logger,
		decoder:          decoder,
		maxBufferBytes:   maxBuffer,
	}
}

// BasePath returns the configured base path.
func (c *Controller) BasePath() string {
	if c == nil {
		return ""
	}
	return c.basePath
}

// Serve routes letter endpoints using the shared controller.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil {
		WriteError(res, letter.NewError(letter.KindInternal, "handler is nil", nil))
		return
	}
	if req == nil {
		WriteError(res, letter.NewError(letter.KindInternal, "request is nil", nil))
		return
	}
	if !strings.HasPrefix(req.Path(), c.basePath) {
		writeNotFound(res)
		return
	}

	pathSuffix := strings.TrimPrefix(req.Path(), c.basePath)
	pathSuffix = strings.Trim(pathSuffix, "/")
	parts := []string{}
	if pathSuffix != "" {
		parts = strings.Split(pathSuffix, "/")
	}

	switch req.Method() {
	case http.MethodPost:
		switch len(parts) {
		case 0:
			c.handleSubmit(req, res)
		case 2:
			switch parts[1] {
			case "approve":
				c.handleReview(req, res, parts[0], letter.StatusApproved)
			case "reject":
				c.handleReview(req, res, parts[0], letter.StatusRejected)
			case "generate":
				c.handleGenerate(req, res, parts[0])
			case "permission":
				c.handlePermissionUpload(req, res, parts[0])
			default:
				writeNotFound(res)
			}
		default:
			writeNotFound(res)
		}
	case http.MethodGet:
		switch len(parts) {
		case 0:
			c.handleList(req, res)
		case 1:
			c.handleStatus(req, res, parts[0])
		case 2:
			if parts[0] == "reports" {
				c.handleReport(req, res, parts[1])
				return
			}
			switch parts[1] {
			case "letter":
				c.handleLetter(req, res, parts[0])
			case "permission":
				c.handlePermissionDownload(req, res, parts[0])
			default:
				writeNotFound(res)
			}
		default:
			writeNotFound(res)
		}
	default:
		res.SetHeader("Allow", "GET,POST")
		res.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (c *Controller) handleSubmit(req Request, res Response) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	if c.decoder == nil {
		WriteError(res, letter.NewError(letter.KindInternal, "submission decoder not configured", nil))
		return
	}
	sub, err := c.decoder.Decode(req)
	if err != nil {
		WriteError(res, err)
		return
	}
	if key := req.Header("Idempotency-Key"); key != "" {
		sub.IdempotencyKey = key
	}

	if sub.IdempotencyKey != "" && c.idempotencyStore != nil {
		signature := buildIdempotencyKey(sub.IdempotencyKey, sub)
		requestID, ok, err := c.idempotencyStore.Get(req.Context(), signature)
		if err != nil {
			WriteError(res, err)
			return
		}
		if ok {
			record, err := c.service.Get(req.Context(), requestID)
			if err == nil {
				writeJSON(res, http.StatusOK, c.submitResponse(record))
				return
			}
		}
	}

	record, err := c.service.Submit(req.Context(), sub)
	if err != nil {
		WriteError(res, err)
		return
	}

	if sub.IdempotencyKey != "" && c.idempotencyStore != nil {
		signature := buildIdempotencyKey(sub.IdempotencyKey, sub)
		ttl := c.idempotencyTTL
		if ttl == 0 {
			ttl = 24 * time.Hour
		}
		if err := c.idempotencyStore.Set(req.Context(), signature, record.ID, ttl); err != nil {
			c.logger.Errorf("idempotency store set failed: %v", err)
		}
	}

	res.SetHeader("Location", c.statusURL(record.ID))
	writeJSON(res, http.StatusCreated, c.submitResponse(record))
}

func (c *Controller) handleList(req Request, res Response) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	filter, err := parseFilter(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	records, err := c.service.List(req.Context(), filter)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, records)
}

func (c *Controller) handleStatus(req Request, res Response, requestID string) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	record, err := c.service.Get(req.Context(), requestID)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, record)
}

func (c *Controller) handleReview(req Request, res Response, requestID string, status letter.Status) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	actor, err := c.actorFromRequest(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	var record letter.Request
	switch status {
	case letter.StatusApproved:
		record, err = c.service.Approve(req.Context(), actor, requestID)
	case letter.StatusRejected:
		record, err = c.service.Reject(req.Context(), actor, requestID)
	default:
		err = letter.NewError(letter.KindInternal, "unsupported review status", nil)
	}
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, record)
}

func (c *Controller) handleGenerate(req Request, res Response, requestID string) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	actor, err := c.actorFromRequest(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	record, err := c.service.Generate(req.Context(), actor, requestID)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, record)
}

func (c *Controller) handleLetter(req Request, res Response, requestID string) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	record, err := c.service.Get(req.Context(), requestID)
	if err != nil {
		WriteError(res, err)
		return
	}

	if c.signedURLTTL > 0 && c.artifacts != nil && record.LetterKey != "" {
		url, err := c.artifacts.SignedURL(req.Context(), record.LetterKey, c.signedURLTTL)
		if err == nil {
			_ = res.Redirect(url, http.StatusFound)
			return
		}
		if letter.KindFromError(err) != letter.KindNotImpl {
			WriteError(res, err)
			return
		}
	}

	reader, meta, err := c.service.OpenLetter(req.Context(), requestID)
	if err != nil {
		WriteError(res, err)
		return
	}
	defer reader.Close()

	filename := meta.Filename
	if filename == "" {
		filename = letter.LetterFilename(record)
	}
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	c.writeFile(res, record.ID, sanitizeFilename(filename, "letter.pdf"), contentType, meta.Size, reader)
}

func (c *Controller) handlePermissionDownload(req Request, res Response, requestID string) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	record, err := c.service.Get(req.Context(), requestID)
	if err != nil {
		WriteError(res, err)
		return
	}

	reader, meta, err := c.service.OpenPermission(req.Context(), requestID)
	if err != nil {
		WriteError(res, err)
		return
	}
	defer reader.Close()

	filename := meta.Filename
	if filename == "" {
		filename = fmt.Sprintf("permission_%s.pdf", record.ID)
	}
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	c.writeFile(res, record.ID, sanitizeFilename(filename, "permission.pdf"), contentType, meta.Size, reader)
}

func (c *Controller) handlePermissionUpload(req Request, res Response, requestID string) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	body := req.Body()
	if body == nil {
		WriteError(res, letter.NewError(letter.KindValidation, "request body is required", nil))
		return
	}
	defer body.Close()

	mediaType, params, err := mime.ParseMediaType(req.Header("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	var (
		filename string
		content  io.Reader
	)
	if strings.HasPrefix(mediaType, "multipart/") {
		part, err := permissionPart(body, params["boundary"])
		if err != nil {
			WriteError(res, err)
			return
		}
		filename = part.FileName()
		content = part
	} else {
		filename = req.Query("filename")
		content = body
	}

	record, err := c.service.AttachPermission(req.Context(), requestID, filename, content)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, record)
}

func (c *Controller) handleReport(req Request, res Response, formatName string) {
	if c.service == nil {
		WriteError(res, letter.NewError(letter.KindNotImpl, "letter service not configured", nil))
		return
	}
	format := report.Format(strings.ToLower(strings.TrimSpace(formatName)))
	renderer, err := report.ForFormat(format)
	if err != nil {
		WriteError(res, err)
		return
	}
	filter, err := parseFilter(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	records, err := c.service.List(req.Context(), filter)
	if err != nil {
		WriteError(res, err)
		return
	}

	filename := "internship_requests" + format.Ext()
	setDownloadHeaders(res, "", filename, format.ContentType())

	if writer, ok := res.Writer(); ok {
		tracker := &trackingWriter{writer: writer}
		if _, err := renderer.Render(req.Context(), records, tracker); err != nil {
			if !tracker.Written() {
				clearDownloadHeaders(res)
				WriteError(res, err)
				return
			}
			c.logger.Errorf("report render failed after write: %v", err)
		}
		return
	}

	buffer := newLimitedBuffer(c.maxBufferBytes)
	if _, err := renderer.Render(req.Context(), records, buffer); err != nil {
		if !buffer.Written() {
			clearDownloadHeaders(res)
			WriteError(res, err)
			return
		}
		c.logger.Errorf("report render failed after buffer write: %v", err)
	}

	res.WriteHeader(http.StatusOK)
	if _, err := res.Write(buffer.Bytes()); err != nil {
		c.logger.Errorf("report buffer write failed: %v", err)
	}
}

func (c *Controller) writeFile(res Response, requestID, filename, contentType string, size int64, reader io.Reader) {
	setDownloadHeaders(res, requestID, filename, contentType)
	if size > 0 {
		res.SetHeader("Content-Length", fmt.Sprintf("%d", size))
	}

	if writer, ok := res.Writer(); ok {
		res.WriteHeader(http.StatusOK)
		if _, err := io.Copy(writer, reader); err != nil {
			c.logger.Errorf("download copy failed: %v", err)
		}
		return
	}

	buffer := newLimitedBuffer(c.maxBufferBytes)
	if _, err := io.Copy(buffer, reader); err != nil {
		clearDownloadHeaders(res)
		WriteError(res, err)
		return
	}

	res.WriteHeader(http.StatusOK)
	if _, err := res.Write(buffer.Bytes()); err != nil {
		c.logger.Errorf("download buffer write failed: %v", err)
	}
}

func (c *Controller) actorFromRequest(req Request) (string, error) {
	if c.actorProvider == nil {
		return "", nil
	}
	actor, err := c.actorProvider.FromContext(req.Context())
	if err != nil {
		return "", letter.NewError(letter.KindAuthz, "actor resolution failed", err)
	}
	return actor, nil
}

func (c *Controller) submitResponse(record letter.Request) SubmitResponse {
	return SubmitResponse{
		ID:        record.ID,
		Status:    string(record.Status),
		StatusURL: c.statusURL(record.ID),
		LetterURL: c.letterURL(record.ID),
	}
}

func (c *Controller) statusURL(requestID string) string {
	return path.Join(c.basePath, requestID)
}

func (c *Controller) letterURL(requestID string) string {
	return path.Join(c.basePath, requestID, "letter")
}

// permissionPart scans a multipart body for the uploaded permission letter.
// The field is expected to be named "permission"; the first file part wins
// when no field matches.
func permissionPart(body io.Reader, boundary string) (*multipart.Part, error) {
	if boundary == "" {
		return nil, letter.NewError(letter.KindValidation, "multipart boundary is required", nil)
	}
	reader := multipart.NewReader(body, boundary)
	var fallback *multipart.Part
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, letter.NewError(letter.KindValidation, "invalid multipart payload", err)
		}
		if part.FileName() == "" {
			continue
		}
		if part.FormName() == "permission" {
			return part, nil
		}
		if fallback == nil {
			fallback = part
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, letter.NewMissingFieldError("permission")
}

func writeNotFound(res Response) {
	res.SetHeader("Content-Type", "text/plain; charset=utf-8")
	res.SetHeader("X-Content-Type-Options", "nosniff")
	res.WriteHeader(http.StatusNotFound)
	_, _ = res.Write([]byte("404 page not found\n"))
}

// WriteError renders an error as a JSON response with a mapped status code.
func WriteError(res Response, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	ge := letter.AsGoError(err)
	status := statusForError(ge)
	payload := ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	}
	writeJSON(res, status, payload)
}

func writeJSON(res Response, status int, payload any) {
	_ = res.WriteJSON(status, payload)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusForbidden
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		if err.TextCode == "canceled" {
			return http.StatusConflict
		}
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func parseFilter(req Request) (letter.Filter, error) {
	filter := letter.Filter{}
	if status := req.Query("status"); status != "" {
		parsed := letter.Status(status)
		if !parsed.Valid() {
			return letter.Filter{}, letter.NewError(letter.KindValidation, "invalid status filter", nil)
		}
		filter.Status = parsed
	}
	if since := req.Query("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return letter.Filter{}, letter.NewError(letter.KindValidation, "invalid since timestamp", err)
		}
		filter.Since = ts
	}
	if until := req.Query("until"); until != "" {
		ts, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return letter.Filter{}, letter.NewError(letter.KindValidation, "invalid until timestamp", err)
		}
		filter.Until = ts
	}
	return filter, nil
}

func sanitizeFilename(filename, fallback string) string {
	name := strings.TrimSpace(filename)
	name = strings.ReplaceAll(name, "\"", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = fallback
	}
	return name
}

func setDownloadHeaders(res Response, requestID, filename, contentType string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res.SetHeader("Content-Type", contentType)
	res.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if requestID != "" {
		res.SetHeader("X-Request-Id", requestID)
	}
}

func clearDownloadHeaders(res Response) {
	res.DelHeader("Content-Disposition")
	res.DelHeader("Content-Type")
	res.DelHeader("X-Request-Id")
	res.DelHeader("Content-Length")
}

type trackingWriter struct {
	writer  io.Writer
	written bool
}

func (w *trackingWriter) Write(p []byte) (int, error) {
	w.written = true
	return w.writer.Write(p)
}

func (w *trackingWriter) Written() bool {
	return w.written
}

type limitedBuffer struct {
	buf     bytes.Buffer
	maxSize int64
	written bool
}

func newLimitedBuffer(maxSize int64) *limitedBuffer {
	if maxSize <= 0 {
		maxSize = DefaultMaxBufferBytes
	}
	return &limitedBuffer{maxSize: maxSize}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.maxSize > 0 && int64(b.buf.Len()+len(p)) > b.maxSize {
		return 0, letter.NewError(letter.KindInternal, "buffer limit exceeded", nil)
	}
	b.written = true
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

func (b *limitedBuffer) Written() bool {
	return b.written
}
