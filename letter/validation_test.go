package letter

import (
	"testing"
	"time"
)

func TestResolveSubmission(t *testing.T) {
	record, err := ResolveSubmission(Submission{
		StudentName:     "  Asha Rao  ",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		DurationStart:   "2024-01-01",
		DurationEnd:     "2024-03-01",
		ReferenceNumber: "JNPA/2024/001",
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if record.StudentName != "Asha Rao" {
		t.Fatalf("expected trimmed name, got %q", record.StudentName)
	}
	if record.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", record.Status)
	}
	if record.ID != "" || !record.CreatedAt.IsZero() {
		t.Fatalf("resolve must leave ID and timestamps to the caller")
	}
	wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !record.DurationStart.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, record.DurationStart)
	}
}

func TestResolveSubmission_MissingFields(t *testing.T) {
	base := Submission{
		StudentName:     "Asha Rao",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		DurationStart:   "2024-01-01",
		DurationEnd:     "2024-03-01",
		ReferenceNumber: "JNPA/2024/001",
	}

	cases := []struct {
		field string
		blank func(*Submission)
	}{
		{FieldStudentName, func(s *Submission) { s.StudentName = "" }},
		{FieldCollegeName, func(s *Submission) { s.CollegeName = "  " }},
		{FieldCourse, func(s *Submission) { s.Course = "" }},
		{FieldReferenceNumber, func(s *Submission) { s.ReferenceNumber = "" }},
		{FieldDurationStart, func(s *Submission) { s.DurationStart = "" }},
		{FieldDurationEnd, func(s *Submission) { s.DurationEnd = "" }},
	}

	for _, tc := range cases {
		sub := base
		tc.blank(&sub)
		_, err := ResolveSubmission(sub)
		if err == nil {
			t.Fatalf("%s: expected missing field error", tc.field)
		}
		field, ok := MissingField(err)
		if !ok || field != tc.field {
			t.Fatalf("expected missing field %s, got %q (%v)", tc.field, field, err)
		}
	}
}

func TestResolveSubmission_BadDates(t *testing.T) {
	sub := Submission{
		StudentName:     "Asha Rao",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		DurationStart:   "01/01/2024",
		DurationEnd:     "2024-03-01",
		ReferenceNumber: "JNPA/2024/001",
	}
	_, err := ResolveSubmission(sub)
	if err == nil {
		t.Fatalf("expected date parse error")
	}
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation kind, got %s", KindFromError(err))
	}

	sub.DurationStart = "2024-03-02"
	sub.DurationEnd = "2024-03-01"
	_, err = ResolveSubmission(sub)
	if err == nil {
		t.Fatalf("expected inverted duration error")
	}
	if KindFromError(err) != KindValidation {
		t.Fatalf("expected validation kind, got %s", KindFromError(err))
	}
}

func TestValidateRequest(t *testing.T) {
	record := Request{
		ID:              "req-1",
		StudentName:     "Asha Rao",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		DurationStart:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DurationEnd:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: "JNPA/2024/001",
		Status:          StatusApproved,
	}
	if err := ValidateRequest(record); err != nil {
		t.Fatalf("validate: %v", err)
	}

	blankCourse := record
	blankCourse.Course = "   "
	err := ValidateRequest(blankCourse)
	if field, ok := MissingField(err); !ok || field != FieldCourse {
		t.Fatalf("expected missing course, got %v", err)
	}

	noStart := record
	noStart.DurationStart = time.Time{}
	err = ValidateRequest(noStart)
	if field, ok := MissingField(err); !ok || field != FieldDurationStart {
		t.Fatalf("expected missing duration_start, got %v", err)
	}

	inverted := record
	inverted.DurationStart, inverted.DurationEnd = inverted.DurationEnd, inverted.DurationStart
	if err := ValidateRequest(inverted); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	if !CanTransition(StatusPending, StatusApproved) {
		t.Fatalf("pending should move to approved")
	}
	if !CanTransition(StatusPending, StatusRejected) {
		t.Fatalf("pending should move to rejected")
	}
	if CanTransition(StatusApproved, StatusRejected) {
		t.Fatalf("approved is terminal")
	}
	if CanTransition(StatusRejected, StatusApproved) {
		t.Fatalf("rejected is terminal")
	}
	if CanTransition(Status("weird"), StatusApproved) {
		t.Fatalf("unknown status must not transition")
	}
}

func TestGenerationPolicy(t *testing.T) {
	strict := GenerationPolicy{}
	if !strict.Admits(StatusApproved) {
		t.Fatalf("approved must always generate")
	}
	if strict.Admits(StatusPending) {
		t.Fatalf("pending refused by default")
	}
	if strict.Admits(StatusRejected) {
		t.Fatalf("rejected never generates")
	}

	relaxed := GenerationPolicy{AllowPending: true}
	if !relaxed.Admits(StatusPending) {
		t.Fatalf("pending admitted when allowed")
	}
	if relaxed.Admits(StatusRejected) {
		t.Fatalf("rejected never generates, policy or not")
	}
}
