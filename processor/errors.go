package processor

import (
	"errors"
	"fmt"
	"go/token"

	"go.uber.org/multierr"
)

// ErrorWithPosition is an error that has source position information associated
// with it. The position indicates the location in a source file where the error
// was encountered.
type ErrorWithPosition struct {
	err error
	pos token.Position
}

// Error implements the error interface. It includes position information in the
// returned message.
func (e *ErrorWithPosition) Error() string {
	return fmt.Sprintf("%s: %s", formatPos(e.pos), e.err.Error())
}

// Underlying returns the underlying error.
func (e *ErrorWithPosition) Underlying() error {
	return e.err
}

func (e *ErrorWithPosition) Unwrap() error {
	return e.err
}

// Pos returns the location in source where the underlying error was
// encountered.
func (e *ErrorWithPosition) Pos() token.Position {
	return e.pos
}

// NewErrorWithPosition returns the given error, but associates it with the
// given source code location.
func NewErrorWithPosition(pos token.Position, err error) *ErrorWithPosition {
	return &ErrorWithPosition{err: err, pos: pos}
}

func formatPos(pos token.Position) string {
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

// Diagnostic is implemented by all errors reported by schema construction and
// usage extraction. It identifies the annotation and parameter involved and
// the source location to which the problem should be attributed.
type Diagnostic interface {
	error
	// Annotation returns the qualified name of the annotation type.
	Annotation() string
	// Parameter returns the name of the parameter involved, or the empty
	// string if the problem is not specific to one parameter.
	Parameter() string
	Pos() token.Position
}

type location struct {
	annotation string
	param      string
	pos        token.Position
}

func (l *location) Annotation() string {
	return l.annotation
}

func (l *location) Parameter() string {
	return l.param
}

func (l *location) Pos() token.Position {
	return l.pos
}

func (l *location) setContext(annotation, param string) {
	if l.annotation == "" {
		l.annotation = annotation
	}
	if l.param == "" {
		l.param = param
	}
}

func (l *location) describe() string {
	switch {
	case l.annotation != "" && l.param != "":
		return fmt.Sprintf("%s: %s.%s", formatPos(l.pos), l.annotation, l.param)
	case l.annotation != "":
		return fmt.Sprintf("%s: %s", formatPos(l.pos), l.annotation)
	case l.param != "":
		return fmt.Sprintf("%s: %s", formatPos(l.pos), l.param)
	default:
		return formatPos(l.pos)
	}
}

type contextual interface {
	setContext(annotation, param string)
}

// withContext fills in the annotation and parameter names for diagnostics
// that were created without them.
func withContext(err error, annotation, param string) error {
	var c contextual
	if errors.As(err, &c) {
		c.setContext(annotation, param)
	}
	return err
}

// UnsupportedTypeError indicates that a parameter's declared type is not one
// of the supported kinds.
type UnsupportedTypeError struct {
	location
	// Type is the declared type, as written.
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: unsupported type %s: %s", e.describe(), e.Type, e.Reason)
}

// SchemaBuildError indicates that an annotation declaration could not be
// turned into a schema. It wraps the first parameter that failed.
type SchemaBuildError struct {
	location
	err error
}

func (e *SchemaBuildError) Error() string {
	return fmt.Sprintf("cannot build schema for annotation %s: %v", e.annotation, e.err)
}

func (e *SchemaBuildError) Unwrap() error {
	return e.err
}

// Underlying returns the wrapped error.
func (e *SchemaBuildError) Underlying() error {
	return e.err
}

// MissingRequiredParameterError indicates that a usage omits a parameter that
// has no default value.
type MissingRequiredParameterError struct {
	location
	// Target is the element on which the annotation was used.
	Target string
}

func (e *MissingRequiredParameterError) Error() string {
	return fmt.Sprintf("%s: required parameter is not specified (on %s)", e.describe(), e.Target)
}

// KindMismatchError indicates that a value's apparent kind disagrees with the
// parameter's declared kind.
type KindMismatchError struct {
	location
	Expected Kind
	Actual   Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("%s: expecting a value of kind %v but got %v", e.describe(), e.Expected, e.Actual)
}

// InvalidValueError indicates that a value has the right kind but cannot be
// used, such as an integer that overflows or an unknown enum constant.
type InvalidValueError struct {
	location
	Kind   Kind
	Reason string
}

func (e *InvalidValueError) Error() string {
	if !e.Kind.IsValid() {
		return fmt.Sprintf("%s: invalid value: %s", e.describe(), e.Reason)
	}
	return fmt.Sprintf("%s: invalid %v value: %s", e.describe(), e.Kind, e.Reason)
}

// UnknownParameterError indicates that a usage supplies a value for a
// parameter that the annotation does not declare.
type UnknownParameterError struct {
	location
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("%s: annotation has no such parameter", e.describe())
}

// DuplicateParameterError indicates that a parameter is declared, or
// supplied, more than once.
type DuplicateParameterError struct {
	location
}

func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("%s: parameter specified more than once", e.describe())
}

func invalidValue(pos token.Position, k Kind, format string, args ...interface{}) *InvalidValueError {
	return &InvalidValueError{
		location: location{pos: pos},
		Kind:     k,
		Reason:   fmt.Sprintf(format, args...),
	}
}

func kindMismatch(pos token.Position, expected, actual Kind) *KindMismatchError {
	return &KindMismatchError{
		location: location{pos: pos},
		Expected: expected,
		Actual:   actual,
	}
}

// Diagnostics flattens an error returned from Config.Execute into its
// individual failures.
func Diagnostics(err error) []error {
	return multierr.Errors(err)
}
