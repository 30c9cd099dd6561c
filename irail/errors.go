package irail

import "fmt"

// ErrorKind classifies upstream failures. The HTTP boundary maps
// kinds to status codes exactly once; nothing else should branch on
// error strings.
type ErrorKind int

const (
	// The upstream call exceeded its deadline.
	KindTimeout ErrorKind = iota + 1

	// DNS failure, connection refused/reset, or a broken body read.
	KindUnavailable

	// The upstream answered with a non-2xx status.
	KindHTTPStatus

	// The upstream answered 2xx but the body was not valid JSON.
	KindMalformed
)

// Error is a classified upstream failure.
type Error struct {
	Kind   ErrorKind
	Status int    // set for KindHTTPStatus
	Body   string // set for KindHTTPStatus
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("iRail API timeout: %v", e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("iRail API returned status %d: %s", e.Status, e.Body)
	case KindMalformed:
		return fmt.Sprintf("iRail API returned malformed response: %v", e.Err)
	default:
		return fmt.Sprintf("iRail API unavailable: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
