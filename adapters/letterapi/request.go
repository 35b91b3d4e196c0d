package letterapi

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/goliatone/go-letters/letter"
)

// defaultFormMemoryBytes bounds in-memory parsing of multipart submissions.
const defaultFormMemoryBytes int64 = 1 * 1024 * 1024

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	Query(name string) string
	Body() io.ReadCloser
}

// SubmissionDecoder parses an HTTP request into a submission.
type SubmissionDecoder interface {
	Decode(req Request) (letter.Submission, error)
}

// FormRequestDecoder decodes JSON, form-urlencoded, and multipart bodies
// into submissions, keyed off the request Content-Type.
type FormRequestDecoder struct {
	MaxFormBytes int64
}

// Decode decodes a request body into a submission.
func (d FormRequestDecoder) Decode(req Request) (letter.Submission, error) {
	if req == nil {
		return letter.Submission{}, letter.NewError(letter.KindInternal, "request is nil", nil)
	}
	body := req.Body()
	if body == nil {
		return letter.Submission{}, letter.NewError(letter.KindValidation, "request body is required", nil)
	}
	defer body.Close()

	mediaType, params, err := mime.ParseMediaType(req.Header("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return decodeMultipartSubmission(body, params["boundary"], d.maxFormBytes())
	case mediaType == "application/x-www-form-urlencoded":
		return decodeFormSubmission(body, d.maxFormBytes())
	default:
		return decodeJSONSubmission(body)
	}
}

func (d FormRequestDecoder) maxFormBytes() int64 {
	if d.MaxFormBytes > 0 {
		return d.MaxFormBytes
	}
	return defaultFormMemoryBytes
}

func decodeJSONSubmission(body io.Reader) (letter.Submission, error) {
	var sub letter.Submission
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&sub); err != nil {
		return letter.Submission{}, letter.NewError(letter.KindValidation, "invalid request payload", err)
	}
	return sub, nil
}

func decodeFormSubmission(body io.Reader, maxBytes int64) (letter.Submission, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxBytes))
	if err != nil {
		return letter.Submission{}, letter.NewError(letter.KindValidation, "invalid form payload", err)
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return letter.Submission{}, letter.NewError(letter.KindValidation, "invalid form payload", err)
	}
	return submissionFromValues(values.Get), nil
}

func decodeMultipartSubmission(body io.Reader, boundary string, maxBytes int64) (letter.Submission, error) {
	if boundary == "" {
		return letter.Submission{}, letter.NewError(letter.KindValidation, "multipart boundary is required", nil)
	}
	form, err := multipart.NewReader(body, boundary).ReadForm(maxBytes)
	if err != nil {
		return letter.Submission{}, letter.NewError(letter.KindValidation, "invalid multipart payload", err)
	}
	defer form.RemoveAll()

	get := func(name string) string {
		if values := form.Value[name]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	return submissionFromValues(get), nil
}

func submissionFromValues(get func(string) string) letter.Submission {
	return letter.Submission{
		StudentName:     get("student_name"),
		CollegeName:     get("college_name"),
		Course:          get("course"),
		DurationStart:   get("duration_start"),
		DurationEnd:     get("duration_end"),
		ReferenceNumber: get("reference_number"),
		Email:           get("email"),
		IdempotencyKey:  get("idempotency_key"),
	}
}
