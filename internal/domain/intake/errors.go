package intake

import "fmt"

// RejectReason why a file did not pass intake
type RejectReason string

const (
	ReasonUnsupportedType RejectReason = "unsupported media type"
	ReasonTooLarge        RejectReason = "file too large"
)

// RejectedError names the file and why it was not accepted.
type RejectedError struct {
	Name   string
	Reason RejectReason
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Name, e.Reason, e.Detail)
}
