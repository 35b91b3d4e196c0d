package letter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewMissingFieldError(FieldStudentName), errorslib.CategoryValidation, "missing_field"},
		{NewError(KindPolicy, "not allowed", nil), errorslib.CategoryAuthz, "policy"},
		{NewError(KindAuthz, "nope", nil), errorslib.CategoryAuthz, "authz"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindFontResolution, "no face", nil), errorslib.CategoryInternal, "font_resolution"},
		{NewError(KindConverterUnavailable, "no binary", nil), errorslib.CategoryInternal, "converter_unavailable"},
		{NewError(KindTimeout, "too slow", nil), errorslib.CategoryOperation, "timeout"},
		{NewError(KindStorage, "disk gone", nil), errorslib.CategoryInternal, "storage"},
		{NewError(KindNotImpl, "not yet", nil), errorslib.CategoryOperation, "not_implemented"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
		{errors.New("plain"), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("%v: expected category %s, got %s", tc.err, tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("%v: expected text code %s, got %s", tc.err, tc.code, mapped.TextCode)
		}
	}
}

func TestAsGoErrorPassthrough(t *testing.T) {
	original := errorslib.New("already mapped", errorslib.CategoryNotFound).WithTextCode("not_found")
	if mapped := AsGoError(original); mapped != original {
		t.Fatalf("expected passthrough, got %v", mapped)
	}
	if AsGoError(nil) != nil {
		t.Fatalf("expected nil mapping for nil error")
	}
}

func TestMissingField(t *testing.T) {
	err := NewMissingFieldError(FieldCourse)
	field, ok := MissingField(err)
	if !ok || field != FieldCourse {
		t.Fatalf("expected field %s, got %q ok=%v", FieldCourse, field, ok)
	}
	if msg := err.Error(); msg != "missing required field course" {
		t.Fatalf("unexpected message %q", msg)
	}

	wrapped := fmt.Errorf("submit: %w", err)
	if field, ok := MissingField(wrapped); !ok || field != FieldCourse {
		t.Fatalf("expected field through wrapping, got %q ok=%v", field, ok)
	}

	if _, ok := MissingField(NewError(KindValidation, "other", nil)); ok {
		t.Fatalf("expected no field for non-missing-field error")
	}
}

func TestKindFromError(t *testing.T) {
	if kind := KindFromError(NewError(KindTimeout, "slow", nil)); kind != KindTimeout {
		t.Fatalf("expected timeout kind, got %s", kind)
	}
	if kind := KindFromError(fmt.Errorf("wrap: %w", NewError(KindFontResolution, "face", nil))); kind != KindFontResolution {
		t.Fatalf("expected font_resolution kind, got %s", kind)
	}
	if kind := KindFromError(context.DeadlineExceeded); kind != KindTimeout {
		t.Fatalf("expected timeout kind for deadline, got %s", kind)
	}
	if kind := KindFromError(errors.New("plain")); kind != KindInternal {
		t.Fatalf("expected internal kind, got %s", kind)
	}
	if kind := KindFromError(nil); kind != "" {
		t.Fatalf("expected empty kind for nil, got %s", kind)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("io failure")
	err := NewError(KindStorage, "write artifact", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if msg := err.Error(); msg != "write artifact: io failure" {
		t.Fatalf("unexpected message %q", msg)
	}
}
