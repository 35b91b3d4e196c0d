package command

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-letters/letter"
)

// SubmitRequest records a new internship request.
type SubmitRequest struct {
	Submission letter.Submission
	Result     *letter.Request
}

func (SubmitRequest) Type() string { return "letter:submit" }

func (msg SubmitRequest) Validate() error {
	if strings.TrimSpace(msg.Submission.StudentName) == "" {
		return errors.New("student name is required", errors.CategoryValidation).
			WithTextCode("STUDENT_NAME_REQUIRED")
	}
	return nil
}

// ApproveRequest approves a pending request and issues the letter.
type ApproveRequest struct {
	Actor     string
	RequestID string
	Result    *letter.Request
}

func (ApproveRequest) Type() string { return "letter:approve" }

func (msg ApproveRequest) Validate() error {
	if strings.TrimSpace(msg.Actor) == "" {
		return errors.New("actor is required", errors.CategoryValidation).
			WithTextCode("ACTOR_REQUIRED")
	}
	if strings.TrimSpace(msg.RequestID) == "" {
		return errors.New("request ID is required", errors.CategoryValidation).
			WithTextCode("REQUEST_ID_REQUIRED")
	}
	return nil
}

// RejectRequest rejects a pending request.
type RejectRequest struct {
	Actor     string
	RequestID string
	Result    *letter.Request
}

func (RejectRequest) Type() string { return "letter:reject" }

func (msg RejectRequest) Validate() error {
	if strings.TrimSpace(msg.Actor) == "" {
		return errors.New("actor is required", errors.CategoryValidation).
			WithTextCode("ACTOR_REQUIRED")
	}
	if strings.TrimSpace(msg.RequestID) == "" {
		return errors.New("request ID is required", errors.CategoryValidation).
			WithTextCode("REQUEST_ID_REQUIRED")
	}
	return nil
}

// GenerateLetter renders and stores the PDF for a request.
type GenerateLetter struct {
	Actor     string
	RequestID string
	Result    *letter.Request
}

func (GenerateLetter) Type() string { return "letter:generate" }

func (msg GenerateLetter) Validate() error {
	if strings.TrimSpace(msg.Actor) == "" {
		return errors.New("actor is required", errors.CategoryValidation).
			WithTextCode("ACTOR_REQUIRED")
	}
	if strings.TrimSpace(msg.RequestID) == "" {
		return errors.New("request ID is required", errors.CategoryValidation).
			WithTextCode("REQUEST_ID_REQUIRED")
	}
	return nil
}

// AttachPermission stores an uploaded college permission letter.
type AttachPermission struct {
	RequestID string
	Filename  string
	Content   []byte
	Result    *letter.Request
}

func (AttachPermission) Type() string { return "letter:attach_permission" }

func (msg AttachPermission) Validate() error {
	if strings.TrimSpace(msg.RequestID) == "" {
		return errors.New("request ID is required", errors.CategoryValidation).
			WithTextCode("REQUEST_ID_REQUIRED")
	}
	if strings.TrimSpace(msg.Filename) == "" {
		return errors.New("permission filename is required", errors.CategoryValidation).
			WithTextCode("PERMISSION_FILENAME_REQUIRED")
	}
	if len(msg.Content) == 0 {
		return errors.New("permission content is required", errors.CategoryValidation).
			WithTextCode("PERMISSION_CONTENT_REQUIRED")
	}
	return nil
}
