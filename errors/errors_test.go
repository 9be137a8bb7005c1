package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{ErrNotFound, "not found"},
		{ErrAlreadyExists, "already exists"},
		{ErrInvalidState, "invalid state"},
		{ErrInvalidConfig, "invalid config"},
		{ErrPermission, "permission denied"},
		{ErrParse, "parse error"},
		{ErrMalformedSyscall, "malformed syscall"},
		{ErrIO, "i/o error"},
		{ErrCatalog, "catalog error"},
		{ErrInternal, "internal error"},
		{ErrorKind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProfilerError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ProfilerError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "<nil>",
		},
		{
			name: "full error",
			err: &ProfilerError{
				Op:     "reset",
				Unit:   "test.service",
				Kind:   ErrNotFound,
				Detail: "drop-in fragment not found",
				Err:    fmt.Errorf("file not found"),
			},
			expected: "unit test.service: reset: drop-in fragment not found: file not found",
		},
		{
			name: "without unit",
			err: &ProfilerError{
				Op:     "summarize",
				Kind:   ErrMalformedSyscall,
				Detail: "missing argument",
			},
			expected: "summarize: missing argument",
		},
		{
			name: "kind only",
			err: &ProfilerError{
				Kind: ErrPermission,
			},
			expected: "permission denied",
		},
		{
			name: "with underlying error",
			err: &ProfilerError{
				Op:   "run",
				Kind: ErrIO,
				Err:  fmt.Errorf("device busy"),
			},
			expected: "run: i/o error: device busy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ProfilerError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProfilerError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	err := &ProfilerError{
		Op:   "test",
		Kind: ErrInternal,
		Err:  underlying,
	}

	if got := err.Unwrap(); got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}

	// Test nil error
	var nilErr *ProfilerError
	if got := nilErr.Unwrap(); got != nil {
		t.Errorf("nil.Unwrap() = %v, want nil", got)
	}
}

func TestProfilerError_Is(t *testing.T) {
	err1 := &ProfilerError{Kind: ErrNotFound, Op: "test1"}
	err2 := &ProfilerError{Kind: ErrNotFound, Op: "test2"}
	err3 := &ProfilerError{Kind: ErrPermission, Op: "test3"}

	// Same kind should match
	if !err1.Is(err2) {
		t.Error("err1.Is(err2) should be true (same kind)")
	}

	// Different kind should not match
	if err1.Is(err3) {
		t.Error("err1.Is(err3) should be false (different kind)")
	}

	// Non-ProfilerError should not match
	if err1.Is(fmt.Errorf("some error")) {
		t.Error("err1.Is(fmt.Errorf(...)) should be false")
	}

	// Nil handling
	var nilErr *ProfilerError
	if !nilErr.Is(nil) {
		t.Error("nil.Is(nil) should be true")
	}
}

func TestNew(t *testing.T) {
	err := New(ErrInvalidConfig, "validate", "unit name is empty")

	if err.Kind != ErrInvalidConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, ErrInvalidConfig)
	}
	if err.Op != "validate" {
		t.Errorf("Op = %q, want %q", err.Op, "validate")
	}
	if err.Detail != "unit name is empty" {
		t.Errorf("Detail = %q, want %q", err.Detail, "unit name is empty")
	}
}

func TestWrap(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := Wrap(underlying, ErrPermission, "open file")

	if err.Err != underlying {
		t.Error("Wrapped error should preserve underlying error")
	}
	if err.Kind != ErrPermission {
		t.Errorf("Kind = %v, want %v", err.Kind, ErrPermission)
	}
	if err.Op != "open file" {
		t.Errorf("Op = %q, want %q", err.Op, "open file")
	}
}

func TestWrapWithUnit(t *testing.T) {
	underlying := fmt.Errorf("not found")
	err := WrapWithUnit(underlying, ErrNotFound, "load", "my.service")

	if err.Unit != "my.service" {
		t.Errorf("Unit = %q, want %q", err.Unit, "my.service")
	}
}

func TestWrapWithDetail(t *testing.T) {
	underlying := fmt.Errorf("syscall failed")
	err := WrapWithDetail(underlying, ErrMalformedSyscall, "summarize", "expected an integer argument")

	if err.Detail != "expected an integer argument" {
		t.Errorf("Detail = %q, want %q", err.Detail, "expected an integer argument")
	}
}

func TestIsKind(t *testing.T) {
	err := &ProfilerError{Kind: ErrNotFound}
	wrapped := fmt.Errorf("wrapped: %w", err)

	if !IsKind(err, ErrNotFound) {
		t.Error("IsKind(err, ErrNotFound) should be true")
	}
	if !IsKind(wrapped, ErrNotFound) {
		t.Error("IsKind(wrapped, ErrNotFound) should be true")
	}
	if IsKind(err, ErrPermission) {
		t.Error("IsKind(err, ErrPermission) should be false")
	}
	if IsKind(fmt.Errorf("plain error"), ErrNotFound) {
		t.Error("IsKind(plain error, ErrNotFound) should be false")
	}
}

func TestGetKind(t *testing.T) {
	err := &ProfilerError{Kind: ErrCatalog}
	wrapped := fmt.Errorf("wrapped: %w", err)

	kind, ok := GetKind(err)
	if !ok || kind != ErrCatalog {
		t.Errorf("GetKind(err) = (%v, %v), want (%v, true)", kind, ok, ErrCatalog)
	}

	kind, ok = GetKind(wrapped)
	if !ok || kind != ErrCatalog {
		t.Errorf("GetKind(wrapped) = (%v, %v), want (%v, true)", kind, ok, ErrCatalog)
	}

	_, ok = GetKind(fmt.Errorf("plain error"))
	if ok {
		t.Error("GetKind(plain error) should return false")
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *ProfilerError
		kind ErrorKind
	}{
		{"ErrUnterminatedUnfinished", ErrUnterminatedUnfinished, ErrParse},
		{"ErrResumedWithoutUnfinished", ErrResumedWithoutUnfinished, ErrParse},
		{"ErrUnexpectedExpressionShape", ErrUnexpectedExpressionShape, ErrMalformedSyscall},
		{"ErrMissingArgument", ErrMissingArgument, ErrMalformedSyscall},
		{"ErrCatalogEmptyValues", ErrCatalogEmptyValues, ErrCatalog},
		{"ErrCatalogBadOrdering", ErrCatalogBadOrdering, ErrCatalog},
		{"ErrUnknownSyscallName", ErrUnknownSyscallName, ErrCatalog},
		{"ErrUnknownCapability", ErrUnknownCapability, ErrCatalog},
		{"ErrInvalidUnitName", ErrInvalidUnitName, ErrInvalidConfig},
		{"ErrUnitNotFound", ErrUnitNotFound, ErrNotFound},
		{"ErrProfileFragmentExists", ErrProfileFragmentExists, ErrAlreadyExists},
		{"ErrNoProfileFragment", ErrNoProfileFragment, ErrInvalidState},
		{"ErrTracerNotFound", ErrTracerNotFound, ErrNotFound},
		{"ErrTracerFailed", ErrTracerFailed, ErrInternal},
		{"ErrProfileBadMagic", ErrProfileBadMagic, ErrInvalidConfig},
		{"ErrProfileUnsupportedVersion", ErrProfileUnsupportedVersion, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("%s.Kind = %v, want %v", tt.name, tt.err.Kind, tt.kind)
			}
			// Ensure Is() works with sentinel errors
			wrapped := Wrap(fmt.Errorf("underlying"), tt.kind, "test")
			if !errors.Is(wrapped, tt.err) {
				t.Errorf("errors.Is(wrapped, %s) should be true", tt.name)
			}
		})
	}
}

func TestErrorChain(t *testing.T) {
	// Test that error chains work correctly with errors.Is and errors.As
	underlying := fmt.Errorf("trace file not found")
	err1 := Wrap(underlying, ErrNotFound, "load trace")
	err2 := fmt.Errorf("run failed: %w", err1)

	// errors.Is should find the ProfilerError in the chain
	if !errors.Is(err2, ErrTracerNotFound) {
		t.Error("errors.Is should find ErrTracerNotFound in chain")
	}

	// errors.As should extract the ProfilerError
	var perr *ProfilerError
	if !errors.As(err2, &perr) {
		t.Error("errors.As should find ProfilerError in chain")
	}
	if perr.Op != "load trace" {
		t.Errorf("perr.Op = %q, want %q", perr.Op, "load trace")
	}

	// Unwrap should work through the chain
	if errors.Unwrap(err1) != underlying {
		t.Error("Unwrap should return underlying error")
	}
}
