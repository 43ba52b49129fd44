// Package errors holds the error types shared by the atf packages and the
// diagnostics reported while lexing, parsing and binding ATF.
//
// Every typed error unwraps to one of the sentinels below unless it carries
// a cause of its own, so callers can branch with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the base of NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is the base of ValidationError, ParseError and
	// Diagnostic.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported is the base of UnsupportedError.
	ErrUnsupported = errors.New("unsupported")
)

func cause(err, base error) error {
	if err != nil {
		return err
	}
	return base
}

// NotFoundError reports a lookup with no result, such as an XPath
// expression that matched nothing.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + ": not found"
	}
	return fmt.Sprintf("%s %q: not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return cause(e.Err, ErrNotFound) }

// ValidationError reports a setting or argument outside its allowed range.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return cause(e.Err, ErrInvalidInput) }

// IOError reports a failed file or store operation. Operation is a verb
// phrase ("read", "write", "decompress").
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports input that could not be decoded as Format. It covers
// whole-input failures (configuration files, undecodable ATF bytes);
// problems inside an ATF text are Diagnostics.
type ParseError struct {
	Format  string
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bad %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("%s: bad %s: %s", e.Path, e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return cause(e.Err, ErrInvalidInput) }

// UnsupportedError reports a value the toolkit recognises but cannot handle.
type UnsupportedError struct {
	Feature string
	Reason  string
	Err     error
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return e.Feature + " not supported"
	}
	return fmt.Sprintf("%s not supported: %s", e.Feature, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return cause(e.Err, ErrUnsupported) }

func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func NewIO(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

func NewParse(format, path, message string) *ParseError {
	return &ParseError{Format: format, Path: path, Message: message}
}

func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{Feature: feature, Reason: reason}
}

// Wrap prefixes err with message. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// Is and As forward to the standard library so callers need one import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
