package domain

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrUpload           = errors.New("upload error")
	ErrSubmission       = errors.New("submission error")
	ErrPoll             = errors.New("poll error")
	ErrTimeout          = errors.New("generation timed out")
	ErrIncompleteResult = errors.New("incomplete result")
	ErrBusy             = errors.New("generation in progress")
	ErrInvalidState     = errors.New("invalid state")
	ErrMissingAPIKey    = errors.New("api key is required")
	ErrNotFound         = errors.New("not found")
)

// ErrorKind is the tag surfaced to presentation alongside a failure message.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrorKindValidation       ErrorKind = "validation"
	ErrorKindUpload           ErrorKind = "upload"
	ErrorKindSubmission       ErrorKind = "submission"
	ErrorKindPoll             ErrorKind = "poll"
	ErrorKindTimeout          ErrorKind = "timeout"
	ErrorKindIncompleteResult ErrorKind = "incomplete_result"
	ErrorKindRemoteFailure    ErrorKind = "remote_failure"
	ErrorKindBusy             ErrorKind = "busy"
	ErrorKindInvalidState     ErrorKind = "invalid_state"
	ErrorKindMissingAPIKey    ErrorKind = "missing_api_key"
	ErrorKindNotFound         ErrorKind = "not_found"
	ErrorKindUnknown          ErrorKind = "unknown"
)

// KindOf classifies err against the domain sentinels.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrValidation):
		return ErrorKindValidation
	case errors.Is(err, ErrMissingAPIKey):
		return ErrorKindMissingAPIKey
	case errors.Is(err, ErrUpload):
		return ErrorKindUpload
	case errors.Is(err, ErrSubmission):
		return ErrorKindSubmission
	case errors.Is(err, ErrPoll):
		return ErrorKindPoll
	case errors.Is(err, ErrTimeout):
		return ErrorKindTimeout
	case errors.Is(err, ErrIncompleteResult):
		return ErrorKindIncompleteResult
	case errors.Is(err, ErrBusy):
		return ErrorKindBusy
	case errors.Is(err, ErrInvalidState):
		return ErrorKindInvalidState
	case errors.Is(err, ErrNotFound):
		return ErrorKindNotFound
	default:
		return ErrorKindUnknown
	}
}
