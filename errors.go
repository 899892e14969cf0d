package pdfgate

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrUnauthorized = errors.New("unauthorized")

	// Request decoding errors. All of them wrap ErrInvalidRequest.
	ErrInvalidRequest  = errors.New("invalid conversion request")
	ErrMissingMarkdown = fmt.Errorf("%w: missing markdown field", ErrInvalidRequest)
	ErrUnknownEngine   = fmt.Errorf("%w: unknown pdf engine", ErrInvalidRequest)
	ErrMalformedForm   = fmt.Errorf("%w: malformed form", ErrInvalidRequest)
	ErrFormTooLarge    = fmt.Errorf("%w: form too large", ErrInvalidRequest)

	// Infrastructure errors. All of them wrap ErrInfrastructure.
	ErrInfrastructure  = errors.New("conversion infrastructure failure")
	ErrTempFile        = fmt.Errorf("%w: temporary file", ErrInfrastructure)
	ErrConverterStart  = fmt.Errorf("%w: starting converter", ErrInfrastructure)
	ErrConverterIO     = fmt.Errorf("%w: converter i/o", ErrInfrastructure)
	ErrMissingArtifact = fmt.Errorf("%w: converter produced no output", ErrInfrastructure)
	ErrBusy            = fmt.Errorf("%w: no conversion slot available", ErrInfrastructure)
)

// RejectedError reports that the converter ran and did not succeed: it
// exited with a non-zero status, or ExitCode is -1 when a signal ended it.
// Stderr holds its diagnostic output, unmodified.
type RejectedError struct {
	ExitCode int
	Stderr   []byte
}

func (e *RejectedError) Error() string {
	if e.ExitCode < 0 {
		return "converter terminated by a signal"
	}
	return fmt.Sprintf("converter exited with status %d", e.ExitCode)
}

// Outcome classifies the result of a conversion.
type Outcome int

// Conversion outcomes.
const (
	OutcomeSuccess Outcome = iota
	OutcomeRejected
	OutcomeSystemError
)

// String returns the label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRejected:
		return "rejected"
	default:
		return "system_error"
	}
}

// Classify maps an error returned by Converter.Convert to its outcome.
// A nil error is a success; a *RejectedError is the converter refusing the
// input; anything else is an infrastructure fault.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return OutcomeRejected
	}
	return OutcomeSystemError
}
