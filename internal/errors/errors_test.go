package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodePolicyRefused, Message: "no tcp/22 accept rule"},
			expected: "[POLICY_REFUSED] no tcp/22 accept rule",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeApplyFailed, "iptables-restore failed", errors.New("exit status 2")),
			expected: "[APPLY_FAILED] iptables-restore failed: exit status 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeBackupFailed, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeValidationFailed, Message: "test error"}
	err2 := &Error{Code: ErrCodeValidationFailed, Message: "another error"}
	err3 := &Error{Code: ErrCodeRollbackFailed, Message: "restore error"}

	if !err1.Is(err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if err1.Is(err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestErrorsIs_MatchesByCode(t *testing.T) {
	err := NewRollbackFailedError("restore after failed apply", errors.New("broken pipe"))

	if !errors.Is(err, &Error{Code: ErrCodeRollbackFailed}) {
		t.Errorf("errors.Is should match on code")
	}

	if errors.Is(err, &Error{Code: ErrCodeApplyFailed}) {
		t.Errorf("errors.Is should not match a different code")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewBackupFailedError("disk full", nil)); got != ErrCodeBackupFailed {
		t.Errorf("CodeOf() = %v, want %v", got, ErrCodeBackupFailed)
	}

	if got := CodeOf(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain error) = %v, want %v", got, ErrCodeInternal)
	}
}

func TestNewPolicyRefusedError(t *testing.T) {
	err := NewPolicyRefusedError("ruleset lacks tcp/22 accept")

	if err.Code != ErrCodePolicyRefused {
		t.Errorf("Expected code %v, got %v", ErrCodePolicyRefused, err.Code)
	}

	if err.Cause != nil {
		t.Errorf("Expected no cause, got %v", err.Cause)
	}
}
