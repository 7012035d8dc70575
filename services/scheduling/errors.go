package scheduling

import "fmt"

// Error codes surfaced to the conversational layer. The agent narrates the
// message; the code tells it whether to suggest a different time, repeat the
// question, or ask the caller to hold on.
const (
	CodeParseError          = "parse_error"
	CodeSlotTaken           = "slot_taken"
	CodeProviderUnavailable = "provider_unavailable"
	CodeAmbiguousWrite      = "ambiguous_write"
	CodeNotFound            = "not_found"
)

type SchedulingError struct {
	Code    string
	Message string
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewSchedulingError(code, msg string) error {
	return &SchedulingError{
		Code:    code,
		Message: msg,
	}
}
