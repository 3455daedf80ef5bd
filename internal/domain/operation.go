package domain

import (
	"errors"
	"fmt"
	"strings"
)

// OperationState is the lifecycle position of an asynchronous generation job.
type OperationState string

const (
	OperationPending     OperationState = "PENDING"
	OperationDoneSuccess OperationState = "DONE_SUCCESS"
	OperationDoneFailure OperationState = "DONE_FAILURE"
)

// ErrOperationSettled is returned when a terminal operation receives another
// transition.
var ErrOperationSettled = errors.New("operation already settled")

// Operation tracks one outstanding long-running provider job. It is created
// from a submit response and only moves forward, PENDING to one DONE state.
type Operation struct {
	ID            string
	State         OperationState
	ResultLocator string
	// ResultData holds a base64 artifact when the provider returned it inline
	// instead of by reference.
	ResultData    string
	FailureReason string
}

// NewOperation returns a pending operation for the provider-issued id.
func NewOperation(id string) (*Operation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty operation id", ErrInvalidRequest)
	}
	return &Operation{ID: id, State: OperationPending}, nil
}

// Done reports whether the operation reached a terminal state.
func (o *Operation) Done() bool {
	return o.State == OperationDoneSuccess || o.State == OperationDoneFailure
}

// Succeed settles the operation with the artifact locator.
func (o *Operation) Succeed(locator string) error {
	if o.Done() {
		return ErrOperationSettled
	}
	if strings.TrimSpace(locator) == "" {
		return o.Fail("no result in completed operation")
	}
	o.State = OperationDoneSuccess
	o.ResultLocator = locator
	return nil
}

// SucceedInline settles the operation with an inline base64 artifact.
func (o *Operation) SucceedInline(data string) error {
	if o.Done() {
		return ErrOperationSettled
	}
	if strings.TrimSpace(data) == "" {
		return o.Fail("no result in completed operation")
	}
	o.State = OperationDoneSuccess
	o.ResultData = data
	return nil
}

// Fail settles the operation with a human readable reason.
func (o *Operation) Fail(reason string) error {
	if o.Done() {
		return ErrOperationSettled
	}
	if strings.TrimSpace(reason) == "" {
		reason = "unknown error"
	}
	o.State = OperationDoneFailure
	o.FailureReason = reason
	return nil
}
