package analysis

import (
	"context"
	"errors"
	"fmt"
)

const (
	// MsgUnreadableText is shown when no usable text could be pulled out of the file.
	MsgUnreadableText = "Could not read CV text. Please upload a TXT file or try a different PDF."
	// MsgAnalysisFailed is the fallback when the service fails without a body.
	MsgAnalysisFailed = "Analysis failed"
	// MsgUnreachable is shown when the request never got a response.
	MsgUnreachable = "Failed to analyze CV: analysis service unreachable"
	// MsgMalformed is shown when the service answered 2xx with something that is not a result.
	MsgMalformed = "Analysis service returned an invalid response"
)

// ValidationError: the file produced no text worth sending. Raised before any network call.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// ServerError: the service answered with a non-2xx status.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("analysis service returned %d: %s", e.StatusCode, e.Message)
}

// TransportError: the request failed before a response arrived.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis request failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// MalformedResponseError: a 2xx body that is not an AnalysisResult object.
type MalformedResponseError struct {
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed analysis response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		ve *ValidationError
		se *ServerError
		te *TransportError
		me *MalformedResponseError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &se):
		if se.Message == "" {
			return MsgAnalysisFailed
		}
		return se.Message
	case errors.As(err, &me):
		return MsgMalformed
	case errors.As(err, &te):
		return MsgUnreachable
	default:
		return err.Error()
	}
}

// IsAborted reports whether err is a caller-initiated cancellation rather than a failure.
func IsAborted(err error) bool {
	return errors.Is(err, context.Canceled)
}
