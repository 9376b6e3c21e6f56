package feed

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrValidationFailed       = errors.New("validation failed")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrActionInFlight         = errors.New("action already in flight")
	ErrCommentNotFound        = errors.New("comment not found")
)

// RemoteError wraps a store failure. Unreachable distinguishes "the
// backend could not be reached" from "the backend rejected the call";
// callers use it to decide between retrying and surfacing the error.
type RemoteError struct {
	Op          string
	Unreachable bool
	Err         error
}

func (e *RemoteError) Error() string {
	if e.Unreachable {
		return fmt.Sprintf("feed: %s: store unreachable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("feed: %s: store rejected: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Unreachable: isUnreachable(err), Err: err}
}

func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
