// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// SessionFailed indicates the remote service returned no execution context id.
	SessionFailed Kind = "session_failed"
	// SubmissionFailed indicates a command submission returned no command id.
	SubmissionFailed Kind = "submission_failed"
	// CommandFailed indicates a submitted command could not be polled to completion.
	CommandFailed Kind = "command_failed"
	// ClusterLaunchFailed indicates the DDL cluster could not be created or resolved.
	ClusterLaunchFailed Kind = "cluster_launch_failed"
	// StructuralError indicates an unexpected entry in the local export layout.
	StructuralError Kind = "structural_error"
	// NotLoggedIn indicates no workspace credentials are configured.
	NotLoggedIn Kind = "not_logged_in"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// HasKind reports whether err is an *E of the given kind.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*E); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
