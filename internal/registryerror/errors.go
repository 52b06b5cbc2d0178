// Package registryerror defines the error taxonomy shared by the registry
// reader, the reconciliation driver and the error-registry writer.
//
// Every concrete error type unwraps to one of the Err* kinds below, so callers
// classify failures with errors.Is and extract details with errors.As.
package registryerror

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal, batch-aborting kinds. Nothing is submitted when one of these occurs.
var (
	ErrEmptyRegistry        = errors.New("registry contains no lines")
	ErrMissingControlMarker = errors.New("control line marker not found")
	ErrMalformedControlLine = errors.New("malformed control line")
	ErrBadFieldCount        = errors.New("payload lines with unexpected field count")
	ErrFieldConversion      = errors.New("field conversion failed")
	ErrChecksumMismatch     = errors.New("control line does not match registry data")
	ErrInvalidAccountFormat = errors.New("account must be longer than 4 characters")
	ErrInvalidCardNumber    = errors.New("card number is not an integer")
)

// Row-level kinds. These reject a single row and never abort the run.
var (
	ErrService          = errors.New("payment service error")
	ErrAmountOutOfRange = errors.New("payment sum outside tariff bounds")
)

// Batch-level and I/O kinds.
var (
	ErrBatchRejected = errors.New("registry has rejected rows")
	ErrWrite         = errors.New("error registry write failed")
)

// FormatError is returned by the registry reader for any structural or
// content problem that blocks the whole run.
type FormatError struct {
	FilePath string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid registry '%s': %v", e.FilePath, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// FieldError represents a single field that could not be converted.
type FieldError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: failed to parse %s='%s': %v",
		e.Line, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return joinKinds(ErrFieldConversion, e.Err)
}

// BadLine is a payload line whose field count is wrong.
type BadLine struct {
	Line int
	Text string
}

// BadLinesError collects every payload line with the wrong number of fields.
type BadLinesError struct {
	Expected int
	Lines    []BadLine
}

func (e *BadLinesError) Error() string {
	numbers := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		numbers[i] = fmt.Sprintf("%d", l.Line)
	}
	return fmt.Sprintf("%d line(s) do not contain %d fields: %s",
		len(e.Lines), e.Expected, strings.Join(numbers, ", "))
}

func (e *BadLinesError) Unwrap() error {
	return ErrBadFieldCount
}

// ServiceError describes a payment service call that failed or answered with
// a non-zero result code.
type ServiceError struct {
	Operation string
	Code      int
	Text      string
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}
	if e.Text != "" {
		return fmt.Sprintf("%s rejected with code %d: %s", e.Operation, e.Code, e.Text)
	}
	return fmt.Sprintf("%s rejected with code %d", e.Operation, e.Code)
}

func (e *ServiceError) Unwrap() []error {
	return joinKinds(ErrService, e.Err)
}

// AmountOutOfRangeError reports a payment sum (minor units) outside the
// inclusive tariff bounds.
type AmountOutOfRangeError struct {
	Amount int64
	Min    int64
	Max    int64
}

func (e *AmountOutOfRangeError) Error() string {
	return fmt.Sprintf("payment sum %d is outside tariff bounds [%d, %d]", e.Amount, e.Min, e.Max)
}

func (e *AmountOutOfRangeError) Unwrap() error {
	return ErrAmountOutOfRange
}

// WriteError wraps an I/O failure while writing the error registry.
type WriteError struct {
	FilePath string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write error registry '%s': %v", e.FilePath, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return joinKinds(ErrWrite, e.Err)
}

func joinKinds(kind, cause error) []error {
	if cause == nil {
		return []error{kind}
	}
	return []error{kind, cause}
}
