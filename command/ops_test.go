package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-letters/letter"
)

type captureSubmitter struct {
	count int
	last  letter.Submission
}

func (c *captureSubmitter) Submit(ctx context.Context, sub letter.Submission) (letter.Request, error) {
	_ = ctx
	c.count++
	c.last = sub
	return letter.Request{ID: "req-1", Status: letter.StatusPending}, nil
}

func TestImportCommand_RunHonorsLimits(t *testing.T) {
	submitter := &captureSubmitter{}
	loader := func(ctx context.Context) ([]ImportSubmission, error) {
		return []ImportSubmission{
			{Submission: letter.Submission{StudentName: "Asha Rao", ReferenceNumber: "JNPA/2024/001"}},
			{Submission: letter.Submission{StudentName: "Ravi Kumar", ReferenceNumber: "JNPA/2024/002"}},
		}, nil
	}

	cmd := NewImportCommand(submitter, loader, WithImportLimits(ImportLimits{MaxRequests: 1, MinInterval: time.Millisecond}))
	cmd.sleep = func(time.Duration) {}

	count, err := cmd.run(context.Background(), "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 submission, got %d", count)
	}
	if submitter.count != 1 {
		t.Fatalf("expected submitter count 1, got %d", submitter.count)
	}
}

func TestImportCommand_RunFromFile(t *testing.T) {
	payload := `[
		{"submission": {"student_name": "Asha Rao", "college_name": "XYZ College", "course": "Marine Engineering", "duration_start": "2024-01-01", "duration_end": "2024-03-01", "reference_number": "JNPA/2024/001"}}
	]`
	path := filepath.Join(t.TempDir(), "requests.json")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	submitter := &captureSubmitter{}
	cmd := NewImportCommand(submitter, nil)

	count, err := cmd.run(context.Background(), path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 submission, got %d", count)
	}
	if submitter.last.StudentName != "Asha Rao" {
		t.Fatalf("expected decoded submission, got %+v", submitter.last)
	}
	if submitter.last.DurationStart != "2024-01-01" {
		t.Fatalf("expected duration start, got %q", submitter.last.DurationStart)
	}
}

func TestImportCommand_MissingLoader(t *testing.T) {
	cmd := NewImportCommand(&captureSubmitter{}, nil)
	if _, err := cmd.run(context.Background(), ""); err == nil {
		t.Fatalf("expected error without loader or file")
	}
}
