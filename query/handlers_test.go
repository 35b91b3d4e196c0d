package query

import (
	"context"
	"testing"

	"github.com/goliatone/go-letters/letter"
)

func seedRequest(t *testing.T, svc letter.Service, reference string) letter.Request {
	t.Helper()
	record, err := svc.Submit(context.Background(), letter.Submission{
		StudentName:     "Asha Rao",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		DurationStart:   "2024-01-01",
		DurationEnd:     "2024-03-01",
		ReferenceNumber: reference,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return record
}

func TestRequestStatusHandler_ReturnsRecord(t *testing.T) {
	svc := letter.NewService(letter.ServiceConfig{})
	record := seedRequest(t, svc, "JNPA/2024/001")

	handler := NewRequestStatusHandler(svc)
	got, err := handler.Query(context.Background(), RequestStatus{RequestID: record.ID})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got.ID != record.ID || got.Status != letter.StatusPending {
		t.Fatalf("expected pending record, got %+v", got)
	}
}

func TestRequestStatusHandler_MissingRecord(t *testing.T) {
	svc := letter.NewService(letter.ServiceConfig{})
	handler := NewRequestStatusHandler(svc)

	_, err := handler.Query(context.Background(), RequestStatus{RequestID: "req-404"})
	if err == nil {
		t.Fatalf("expected not found error")
	}
	if letter.AsGoError(err).TextCode != "not_found" {
		t.Fatalf("expected not_found code, got %s", letter.AsGoError(err).TextCode)
	}
}

func TestListRequestsHandler_FiltersByStatus(t *testing.T) {
	svc := letter.NewService(letter.ServiceConfig{})
	first := seedRequest(t, svc, "JNPA/2024/001")
	seedRequest(t, svc, "JNPA/2024/002")

	if _, err := svc.Reject(context.Background(), "admin", first.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	handler := NewListRequestsHandler(svc)
	records, err := handler.Query(context.Background(), ListRequests{
		Filter: letter.Filter{Status: letter.StatusPending},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 pending record, got %d", len(records))
	}
	if records[0].ReferenceNumber != "JNPA/2024/002" {
		t.Fatalf("expected pending record, got %+v", records[0])
	}
}

func TestMessageValidation(t *testing.T) {
	if err := (RequestStatus{}).Validate(); err == nil {
		t.Fatalf("expected validation error for missing request ID")
	}
	if err := (ListRequests{Filter: letter.Filter{Status: letter.Status("bogus")}}).Validate(); err == nil {
		t.Fatalf("expected validation error for bogus status")
	}
	if err := (ListRequests{}).Validate(); err != nil {
		t.Fatalf("expected empty filter to validate, got %v", err)
	}
}
