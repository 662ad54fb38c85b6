package gitsync

import "fmt"

// AuthError indicates the remote rejected our credentials.
type AuthError struct {
	Op  string
	URL string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("gitsync %s %s: authentication failed: %v", e.Op, e.URL, e.Err)
}
func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError indicates the repository does not exist at the remote.
type NotFoundError struct {
	Op  string
	URL string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("gitsync %s %s: repository not found: %v", e.Op, e.URL, e.Err)
}
func (e *NotFoundError) Unwrap() error { return e.Err }

// NetworkTimeoutError indicates a transient network failure worth retrying.
type NetworkTimeoutError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkTimeoutError) Error() string {
	return fmt.Sprintf("gitsync %s %s: network timeout: %v", e.Op, e.URL, e.Err)
}
func (e *NetworkTimeoutError) Unwrap() error { return e.Err }
