package letter

import (
	"fmt"
	"strings"
	"time"
)

// Form field names used in validation errors and wire payloads.
const (
	FieldStudentName     = "student_name"
	FieldCollegeName     = "college_name"
	FieldCourse          = "course"
	FieldDurationStart   = "duration_start"
	FieldDurationEnd     = "duration_end"
	FieldReferenceNumber = "reference_number"
)

// ResolveSubmission validates a submission and builds the record to persist.
// The caller assigns ID and timestamps.
func ResolveSubmission(sub Submission) (Request, error) {
	record := Request{
		StudentName:     strings.TrimSpace(sub.StudentName),
		CollegeName:     strings.TrimSpace(sub.CollegeName),
		Course:          strings.TrimSpace(sub.Course),
		ReferenceNumber: strings.TrimSpace(sub.ReferenceNumber),
		Email:           strings.TrimSpace(sub.Email),
		Status:          StatusPending,
	}

	if record.StudentName == "" {
		return Request{}, NewMissingFieldError(FieldStudentName)
	}
	if record.CollegeName == "" {
		return Request{}, NewMissingFieldError(FieldCollegeName)
	}
	if record.Course == "" {
		return Request{}, NewMissingFieldError(FieldCourse)
	}
	if record.ReferenceNumber == "" {
		return Request{}, NewMissingFieldError(FieldReferenceNumber)
	}

	start, err := parseDate(FieldDurationStart, sub.DurationStart)
	if err != nil {
		return Request{}, err
	}
	end, err := parseDate(FieldDurationEnd, sub.DurationEnd)
	if err != nil {
		return Request{}, err
	}
	if end.Before(start) {
		return Request{}, NewError(KindValidation, "duration_end precedes duration_start", nil)
	}
	record.DurationStart = start
	record.DurationEnd = end

	return record, nil
}

// ValidateRequest checks a stored record before rendering. Every required
// field must be present and non-empty after trimming; no markup may be
// produced otherwise.
func ValidateRequest(req Request) error {
	fields := []struct {
		name  string
		value string
	}{
		{FieldStudentName, req.StudentName},
		{FieldCollegeName, req.CollegeName},
		{FieldCourse, req.Course},
		{FieldReferenceNumber, req.ReferenceNumber},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return NewMissingFieldError(f.name)
		}
	}

	if req.DurationStart.IsZero() {
		return NewMissingFieldError(FieldDurationStart)
	}
	if req.DurationEnd.IsZero() {
		return NewMissingFieldError(FieldDurationEnd)
	}
	if req.DurationEnd.Before(req.DurationStart) {
		return NewError(KindValidation, "duration_end precedes duration_start", nil)
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewMissingFieldError(field)
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, NewError(KindValidation, fmt.Sprintf("invalid %s date %q", field, value), err)
	}
	return parsed, nil
}
