package execute

import (
	"errors"
	"fmt"
)

// ErrTimeout matches any *BackendError caused by the call deadline.
var ErrTimeout = errors.New("execution timed out")

// DispatchKind classifies routing failures.
type DispatchKind int

const (
	NoLanguageSpecified DispatchKind = iota + 1
	UnsupportedLanguage
)

// DispatchError is returned when a language tag cannot be routed.
type DispatchError struct {
	Kind     DispatchKind
	Language string
}

func (e *DispatchError) Error() string {
	if e.Kind == NoLanguageSpecified {
		return "no language specified"
	}
	return fmt.Sprintf("unsupported language %q", e.Language)
}

// UserMessage is the text shown in the channel.
func (e *DispatchError) UserMessage() string {
	if e.Kind == NoLanguageSpecified {
		return "ERROR: No language specified.\nHint: ```<language>"
	}
	return "ERROR: Unsupported language."
}

// BackendKind classifies execution service failures.
type BackendKind int

const (
	KindTransport BackendKind = iota + 1
	KindTimeout
	KindStatus
	KindMalformedResponse
	KindFailed
	KindAPIError
	KindMissingField
)

func (k BackendKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindMalformedResponse:
		return "malformed_response"
	case KindFailed:
		return "failed"
	case KindAPIError:
		return "api_error"
	case KindMissingField:
		return "missing_field"
	default:
		return "unknown"
	}
}

// BackendError wraps a failed call to an execution service.
type BackendError struct {
	Backend string
	Kind    BackendKind
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s backend: %s", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTimeout) match timeouts.
func (e *BackendError) Is(target error) bool {
	return target == ErrTimeout && e.Kind == KindTimeout
}

// UserMessage is the text shown in the channel. It never includes backend
// response bodies or transport details.
func (e *BackendError) UserMessage() string {
	switch e.Kind {
	case KindTimeout:
		return "ERROR: Execution timed out."
	case KindFailed:
		return "ERROR: Code failed."
	case KindAPIError, KindStatus:
		return "ERROR: API Error."
	case KindMalformedResponse:
		return "ERROR: Execution service returned an invalid response."
	case KindMissingField:
		return "ERROR: Execution service response was missing output."
	default:
		return "ERROR: Could not reach the execution service."
	}
}

func backendErr(backend string, kind BackendKind, err error) *BackendError {
	return &BackendError{Backend: backend, Kind: kind, Err: err}
}
