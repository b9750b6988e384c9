package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "explicit transient", err: NewTransientError("x", nil), want: ErrorTypeTransient},
		{name: "explicit permanent", err: NewPermanentError("x", nil), want: ErrorTypePermanent},
		{name: "business", err: NewBusinessError("x", nil), want: ErrorTypeBusiness},
		{name: "wrapped transient", err: fmt.Errorf("parse: %w", NewTransientError("x", nil)), want: ErrorTypeTransient},
		{name: "deadline", err: fmt.Errorf("op: %w", context.DeadlineExceeded), want: ErrorTypeTransient},
		{name: "connection refused mixed case", err: errors.New("dial tcp: Connection Refused"), want: ErrorTypeTransient},
		{name: "schema mismatch", err: errors.New("Schema Mismatch on field"), want: ErrorTypePermanent},
		{name: "unknown defaults to permanent", err: errors.New("weird"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("x", nil)

	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error should not retry")
	}
	if !ShouldRetry(transient, 0, 3) {
		t.Error("transient under limit should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("transient at limit should not retry")
	}
	if ShouldRetry(NewPermanentError("x", nil), 0, 3) {
		t.Error("permanent should not retry")
	}
}

func TestKafkaError(t *testing.T) {
	cause := errors.New("cause")
	err := NewTransientError("fetch genotype", cause).WithDetail("genotype_id", "g1")

	if !errors.Is(err, cause) {
		t.Error("KafkaError does not unwrap to cause")
	}
	if err.Error() != "fetch genotype: cause" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Details["genotype_id"] != "g1" || !err.IsTransient() || err.IsPermanent() {
		t.Errorf("unexpected error state: %+v", err)
	}
}
