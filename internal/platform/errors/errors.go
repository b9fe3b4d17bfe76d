package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrNoIdentity         = errors.New("no identity")
	ErrAccessDenied       = errors.New("access denied")
	ErrEmptySubmission    = errors.New("prompt or attachment is required")
	ErrAttachmentLimit    = errors.New("You can only upload a maximum of 5 files.")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrInvalidTransition  = errors.New("invalid state transition")
	ErrMissingReply       = errors.New("missing scenario reply")
	ErrNoWeekSelected     = errors.New("Please select a week for the assessment.")
	ErrNotPDF             = errors.New("Please select a PDF file.")
	ErrNothingToIngest    = errors.New("No PDF file or text selected.")
)

// MissingReplyError names the first scenario whose draft reply is empty.
type MissingReplyError struct {
	ScenarioID int
}

func (e MissingReplyError) Error() string {
	return fmt.Sprintf("Please provide a reply for Scenario %d.", e.ScenarioID)
}

func (e MissingReplyError) Is(target error) bool {
	return target == ErrMissingReply
}

// AccessDeniedError carries the configured domain suffix into the user-facing message.
type AccessDeniedError struct {
	Suffix string
}

func (e AccessDeniedError) Error() string {
	return fmt.Sprintf("Access denied. Please use an %s email address.", e.Suffix)
}

func (e AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}
