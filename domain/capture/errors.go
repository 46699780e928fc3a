package capture

import (
	"errors"
	"fmt"
)

// ErrorKind classifies session configuration failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDeviceUnavailable
	KindInvalidInput
	KindInvalidOutput
)

func (k ErrorKind) String() string {
	switch k {
	case KindDeviceUnavailable:
		return "device unavailable"
	case KindInvalidInput:
		return "invalid input"
	case KindInvalidOutput:
		return "invalid output"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *CaptureError.
var (
	ErrDeviceUnavailable = errors.New("capture: device unavailable")
	ErrInvalidInput      = errors.New("capture: invalid input")
	ErrInvalidOutput     = errors.New("capture: invalid output")
	ErrUnknown           = errors.New("capture: unknown error")
)

// CaptureError reports a failed session operation and the underlying cause.
type CaptureError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("capture: %s: %s", e.Op, e.Kind)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *CaptureError) Is(target error) bool {
	switch target {
	case ErrDeviceUnavailable:
		return e.Kind == KindDeviceUnavailable
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrInvalidOutput:
		return e.Kind == KindInvalidOutput
	case ErrUnknown:
		return e.Kind == KindUnknown
	}
	return false
}

func newCaptureError(kind ErrorKind, op string, err error) *CaptureError {
	return &CaptureError{Kind: kind, Op: op, Err: err}
}
