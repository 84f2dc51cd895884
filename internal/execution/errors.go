package execution

import "errors"

// Kind classifies failures observed while driving trades.
type Kind string

const (
	CredentialLoad      Kind = "CredentialLoadError"
	Connectivity        Kind = "ConnectivityError"
	BalanceQuery        Kind = "BalanceQueryError"
	InsufficientBalance Kind = "InsufficientBalance"
	FreshnessToken      Kind = "FreshnessTokenError"
	Submission          Kind = "SubmissionError"
	Confirmation        Kind = "ConfirmationError"
)

// Fatal reports whether a failure of this kind ends the run.
func (k Kind) Fatal() bool {
	return k == CredentialLoad || k == Connectivity
}

// Error tags an underlying error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

// Wrap tags err with kind. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or "" when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
