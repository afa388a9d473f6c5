package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidDimension, "width must be positive, got %g", -3.0)

	if err.Code != ErrCodeInvalidDimension {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDimension)
	}

	if err.Message != "width must be positive, got -3" {
		t.Errorf("Message = %v, want %v", err.Message, "width must be positive, got -3")
	}

	expected := "INVALID_DIMENSION: width must be positive, got -3"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidFormat, cause, "failed to parse plan")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidAngle, "test"),
			code:     ErrCodeInvalidAngle,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInvalidAngle, "test"),
			code:     ErrCodeInvalidDimension,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInvalidAngle,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeDegenerateBays, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeDegenerateStructure, "x")); got != ErrCodeDegenerateStructure {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeDegenerateStructure)
	}
	if got := GetCode(errors.New("plain")); got != Code("") {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestIsConfig(t *testing.T) {
	configCodes := []Code{
		ErrCodeInvalidConfig, ErrCodeInvalidDimension, ErrCodeInvalidSpacing,
		ErrCodeInvalidAngle, ErrCodeInvalidFill,
		ErrCodeDegenerateStructure, ErrCodeDegenerateBays,
	}
	for _, code := range configCodes {
		if !IsConfig(New(code, "x")) {
			t.Errorf("IsConfig(%s) = false, want true", code)
		}
	}

	if IsConfig(New(ErrCodeInternal, "x")) {
		t.Error("IsConfig(INTERNAL_ERROR) = true, want false")
	}
	if IsConfig(errors.New("plain")) {
		t.Error("IsConfig(plain error) = true, want false")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidAngle, "parking angle must be strictly between 0 and 90 degrees")
	if got := UserMessage(err); got != "parking angle must be strictly between 0 and 90 degrees" {
		t.Errorf("UserMessage() = %v", got)
	}

	plain := errors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %v", got)
	}
}
