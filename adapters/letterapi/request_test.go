package letterapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-letters/letter"
)

type stubRequest struct {
	contentType string
	body        io.ReadCloser
}

func (s stubRequest) Context() context.Context { return context.Background() }
func (s stubRequest) Method() string           { return "POST" }
func (s stubRequest) Path() string             { return "/requests" }
func (s stubRequest) Query(string) string      { return "" }
func (s stubRequest) Body() io.ReadCloser      { return s.body }

func (s stubRequest) Header(name string) string {
	if name == "Content-Type" {
		return s.contentType
	}
	return ""
}

func TestFormRequestDecoder_JSON(t *testing.T) {
	payload := `{"student_name":"Asha Rao","college_name":"XYZ College","course":"Marine Engineering","duration_start":"2024-01-01","duration_end":"2024-03-01","reference_number":"JNPA/2024/001"}`
	decoder := FormRequestDecoder{}
	sub, err := decoder.Decode(stubRequest{
		contentType: "application/json",
		body:        io.NopCloser(strings.NewReader(payload)),
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.StudentName != "Asha Rao" {
		t.Fatalf("expected student name, got %q", sub.StudentName)
	}
	if sub.ReferenceNumber != "JNPA/2024/001" {
		t.Fatalf("expected reference number, got %q", sub.ReferenceNumber)
	}
}

func TestFormRequestDecoder_UnknownFieldRejected(t *testing.T) {
	payload := `{"student_name":"Asha Rao","surprise":"field"}`
	decoder := FormRequestDecoder{}
	_, err := decoder.Decode(stubRequest{
		contentType: "application/json",
		body:        io.NopCloser(strings.NewReader(payload)),
	})
	if letter.KindFromError(err) != letter.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFormRequestDecoder_FormEncoded(t *testing.T) {
	form := "student_name=Asha+Rao&college_name=XYZ+College&course=Marine+Engineering" +
		"&duration_start=2024-01-01&duration_end=2024-03-01&reference_number=JNPA%2F2024%2F001&email=asha%40example.test"
	decoder := FormRequestDecoder{}
	sub, err := decoder.Decode(stubRequest{
		contentType: "application/x-www-form-urlencoded",
		body:        io.NopCloser(strings.NewReader(form)),
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.CollegeName != "XYZ College" {
		t.Fatalf("expected college name, got %q", sub.CollegeName)
	}
	if sub.Email != "asha@example.test" {
		t.Fatalf("expected email, got %q", sub.Email)
	}
}

func TestFormRequestDecoder_Multipart(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"student_name":     "Ravi Kumar",
		"college_name":     "ABC Institute",
		"course":           "Port Logistics",
		"duration_start":   "2024-02-01",
		"duration_end":     "2024-04-01",
		"reference_number": "JNPA/2024/002",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	decoder := FormRequestDecoder{}
	sub, err := decoder.Decode(stubRequest{
		contentType: writer.FormDataContentType(),
		body:        io.NopCloser(&buf),
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sub.StudentName != "Ravi Kumar" {
		t.Fatalf("expected student name, got %q", sub.StudentName)
	}
	if sub.Course != "Port Logistics" {
		t.Fatalf("expected course, got %q", sub.Course)
	}
}

func TestBuildIdempotencyKey_PayloadBound(t *testing.T) {
	sub := letter.Submission{
		StudentName:     "Asha Rao",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		DurationStart:   "2024-01-01",
		DurationEnd:     "2024-03-01",
		ReferenceNumber: "JNPA/2024/001",
	}

	first := buildIdempotencyKey("abc123", sub)
	second := buildIdempotencyKey("abc123", sub)
	if first != second {
		t.Fatalf("expected stable signature, got %q vs %q", first, second)
	}

	changed := sub
	changed.ReferenceNumber = "JNPA/2024/002"
	if buildIdempotencyKey("abc123", changed) == first {
		t.Fatalf("expected payload change to produce a new signature")
	}
	if buildIdempotencyKey("other", sub) == first {
		t.Fatalf("expected key change to produce a new signature")
	}
}

func TestMemoryIdempotencyStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	store := NewMemoryIdempotencyStore()
	store.clock = func() time.Time { return now }

	if err := store.Set(ctx, "sig-1", "req-1", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	id, ok, err := store.Get(ctx, "sig-1")
	if err != nil || !ok || id != "req-1" {
		t.Fatalf("expected hit, got id=%q ok=%v err=%v", id, ok, err)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, "sig-1"); ok {
		t.Fatalf("expected expired entry to miss")
	}

	if err := store.Set(ctx, "", "req-1", 0); letter.KindFromError(err) != letter.KindValidation {
		t.Fatalf("expected validation error for empty key, got %v", err)
	}
}
