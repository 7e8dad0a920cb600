package courier

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotConfigured means no endpoint template exists for an operation.
	ErrNotConfigured = errors.New("not configured")
	// ErrMalformedResponse means a body could not be parsed as the
	// courier's response type.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidArgument means a required parameter was missing or unusable.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnimplemented is returned when a courier cannot interpret an error
	// or does not support an operation.
	ErrUnimplemented = errors.New("unimplemented")
	// ErrCarrier matches every *CarrierError.
	ErrCarrier = errors.New("carrier error")
)

// Failure describes an unsuccessful carrier call handed to an ErrorHook.
// Number, Source and Description are set when the carrier embedded an error
// node in an otherwise successful response.
type Failure struct {
	Operation   Operation
	StatusCode  int
	Body        []byte
	Number      string
	Source      string
	Description string
}

// CarrierError is a diagnostic reported by the carrier itself.
type CarrierError struct {
	Operation   Operation
	StatusCode  int
	Number      string
	Source      string
	Description string
}

func (e *CarrierError) Error() string {
	msg := fmt.Sprintf("%s: carrier error", e.Operation)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Number != "" {
		msg += " " + e.Number
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

func (e *CarrierError) Is(target error) bool {
	return target == ErrCarrier
}
