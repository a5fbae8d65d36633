package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that the targeted document does not exist in its collection.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a client-side field check that failed before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid is a shorthand constructor for ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ProviderCode classifies authentication failures returned by the identity provider.
type ProviderCode string

const (
	CodeUnknownAccount  ProviderCode = "unknown-account"
	CodeWrongCredential ProviderCode = "wrong-credential"
	CodeMalformedEmail  ProviderCode = "malformed-email"
	CodeRateLimited     ProviderCode = "rate-limited"
	CodeProviderOther   ProviderCode = "other"
)

// providerMessages holds the fixed user-facing string for each classification.
var providerMessages = map[ProviderCode]string{
	CodeUnknownAccount:  "No account found with this email.",
	CodeWrongCredential: "Incorrect password. Please try again.",
	CodeMalformedEmail:  "Invalid email address format.",
	CodeRateLimited:     "Too many failed attempts. Please try again later.",
	CodeProviderOther:   "Login failed. Please check your credentials.",
}

// ProviderError wraps a classified sign-in failure from the identity provider.
type ProviderError struct {
	Code ProviderCode
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity provider: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("identity provider: %s", e.Code)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Message returns the fixed user-facing string for the error's classification.
func (e *ProviderError) Message() string {
	if msg, ok := providerMessages[e.Code]; ok {
		return msg
	}
	return providerMessages[CodeProviderOther]
}

// StoreError wraps any other record store failure, including connectivity.
// It always surfaces to the user as a single generic message.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError unless it is nil or already classified.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
