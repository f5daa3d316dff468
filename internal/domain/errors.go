package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeCannotRemoveLast = "CANNOT_REMOVE_LAST"
	CodeSiteNotFound     = "SITE_NOT_FOUND"
	CodeMonitorNotFound  = "MONITOR_NOT_FOUND"
	CodeInvalidSite      = "INVALID_SITE"
	CodeInvalidMonitor   = "INVALID_MONITOR"
	CodeInvalidBackup    = "INVALID_BACKUP"
)

// ValidationError is a local precondition failure. It is raised before any
// backend call is made.
type ValidationError struct {
	Code    string
	Op      string
	Site    string
	Monitor string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Op != "" {
		b.WriteString(" (" + e.Op + ")")
	}
	if e.Site != "" {
		b.WriteString(" site=" + e.Site)
	}
	if e.Monitor != "" {
		b.WriteString(" monitor=" + e.Monitor)
	}
	return b.String()
}

// Is matches any ValidationError carrying the same code, so the sentinels
// below work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrCannotRemoveLast = &ValidationError{Code: CodeCannotRemoveLast}
	ErrSiteNotFound     = &ValidationError{Code: CodeSiteNotFound}
	ErrMonitorNotFound  = &ValidationError{Code: CodeMonitorNotFound}
	ErrInvalidSite      = &ValidationError{Code: CodeInvalidSite}
	ErrInvalidMonitor   = &ValidationError{Code: CodeInvalidMonitor}
	ErrInvalidBackup    = &ValidationError{Code: CodeInvalidBackup}
)

// BackendCallError is a failed call to a remote backend.
type BackendCallError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *BackendCallError) Error() string {
	msg := fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is lets a remote CANNOT_REMOVE_LAST (or any other validation code) match
// the local sentinel.
func (e *BackendCallError) Is(target error) bool {
	var t *ValidationError
	if e.Code == "" || !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

const (
	WarningDuplicate = "duplicate"
	WarningMalformed = "malformed"
)

// IntegrityWarning describes data dropped while sanitizing a snapshot. It is
// logged, never returned as an error.
type IntegrityWarning struct {
	Kind        string
	Identifiers []string
}

func (w IntegrityWarning) String() string {
	return w.Kind + ": " + strings.Join(w.Identifiers, ",")
}

// SubscriptionError records a listener that could not be attached.
type SubscriptionError struct {
	Category StatusCategory
	Err      error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscribe %s: %v", e.Category, e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }
