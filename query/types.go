package query

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-letters/letter"
)

// RequestStatus requests a single internship request record.
type RequestStatus struct {
	RequestID string
}

func (RequestStatus) Type() string { return "letter:status" }

func (msg RequestStatus) Validate() error {
	if strings.TrimSpace(msg.RequestID) == "" {
		return errors.New("request ID is required", errors.CategoryValidation).
			WithTextCode("REQUEST_ID_REQUIRED")
	}
	return nil
}

// ListRequests requests the filtered request register.
type ListRequests struct {
	Filter letter.Filter
}

func (ListRequests) Type() string { return "letter:list" }

func (msg ListRequests) Validate() error {
	if msg.Filter.Status != "" && !msg.Filter.Status.Valid() {
		return errors.New("invalid status filter", errors.CategoryValidation).
			WithTextCode("STATUS_INVALID")
	}
	return nil
}
