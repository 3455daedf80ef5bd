package domain

import (
	"errors"
	"testing"
)

func TestNewOperationRejectsEmptyID(t *testing.T) {
	if _, err := NewOperation("  "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestOperationTransitions(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(*Operation) error
		state   OperationState
		locator string
		reason  string
	}{
		{
			name:    "success with locator",
			apply:   func(o *Operation) error { return o.Succeed("https://provider/video/abc.mp4") },
			state:   OperationDoneSuccess,
			locator: "https://provider/video/abc.mp4",
		},
		{
			name:   "success without locator is a failure",
			apply:  func(o *Operation) error { return o.Succeed("") },
			state:  OperationDoneFailure,
			reason: "no result in completed operation",
		},
		{
			name:   "failure keeps reason",
			apply:  func(o *Operation) error { return o.Fail("quota exceeded") },
			state:  OperationDoneFailure,
			reason: "quota exceeded",
		},
		{
			name:   "failure without reason",
			apply:  func(o *Operation) error { return o.Fail("") },
			state:  OperationDoneFailure,
			reason: "unknown error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NewOperation("op_123")
			if err != nil {
				t.Fatalf("NewOperation: %v", err)
			}
			if op.State != OperationPending || op.Done() {
				t.Fatalf("new operation should be pending, got %s", op.State)
			}
			if err := tt.apply(op); err != nil {
				t.Fatalf("transition: %v", err)
			}
			if op.State != tt.state {
				t.Fatalf("state = %s, want %s", op.State, tt.state)
			}
			if op.ResultLocator != tt.locator {
				t.Fatalf("locator = %q, want %q", op.ResultLocator, tt.locator)
			}
			if op.FailureReason != tt.reason {
				t.Fatalf("reason = %q, want %q", op.FailureReason, tt.reason)
			}
		})
	}
}

func TestOperationTerminalStateIsSticky(t *testing.T) {
	op, _ := NewOperation("op_123")
	if err := op.Succeed("https://provider/video/abc.mp4"); err != nil {
		t.Fatalf("Succeed: %v", err)
	}
	if err := op.Fail("late failure"); !errors.Is(err, ErrOperationSettled) {
		t.Fatalf("expected ErrOperationSettled, got %v", err)
	}
	if err := op.Succeed("https://provider/other.mp4"); !errors.Is(err, ErrOperationSettled) {
		t.Fatalf("expected ErrOperationSettled, got %v", err)
	}
	if op.ResultLocator != "https://provider/video/abc.mp4" {
		t.Fatalf("locator changed to %q", op.ResultLocator)
	}
}

func TestOperationSucceedInline(t *testing.T) {
	op, _ := NewOperation("op_123")
	if err := op.SucceedInline("AAAA"); err != nil {
		t.Fatalf("SucceedInline: %v", err)
	}
	if op.State != OperationDoneSuccess || op.ResultData != "AAAA" {
		t.Fatalf("unexpected operation %+v", op)
	}

	empty, _ := NewOperation("op_456")
	if err := empty.SucceedInline(" "); err != nil {
		t.Fatalf("SucceedInline: %v", err)
	}
	if empty.State != OperationDoneFailure || empty.FailureReason != "no result in completed operation" {
		t.Fatalf("unexpected operation %+v", empty)
	}
}
