package database

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"
)

const (
	maxAttempts  = 3
	retryBackoff = 50 * time.Millisecond
)

// isTransient reports whether an error is worth an automatic retry:
// a dropped connection or a briefly locked SQLite database.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "connection reset")
}

// withRetry runs op up to maxAttempts times with linear backoff between
// attempts. Non-transient errors are returned immediately.
func withRetry(op func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op()
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt < maxAttempts {
			time.Sleep(retryBackoff * time.Duration(attempt))
		}
	}
	return err
}
