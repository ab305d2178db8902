package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotRegistered, "missing")
	if err.Code != ErrCodeNotRegistered {
		t.Errorf("expected code %s, got %s", ErrCodeNotRegistered, err.Code)
	}
	if err.Message != "missing" {
		t.Errorf("expected message 'missing', got %q", err.Message)
	}
	if err.Error() != "NOT_REGISTERED: missing" {
		t.Errorf("unexpected Error(): %q", err.Error())
	}
}

func TestAppError_UsageCodes(t *testing.T) {
	tests := []struct {
		name  string
		err   *AppError
		usage bool
	}{
		{"invalid operation", InvalidOperation("built twice"), true},
		{"null argument", NullArgument("fn"), true},
		{"invalid argument", InvalidArgument("key", "empty"), true},
		{"extension failed", ExtensionFailed("ext", fmt.Errorf("boom")), false},
		{"not registered", NotRegistered("svc"), false},
		{"startup not found", StartupNotFound("app", []string{"StartupDev", "Startup"}), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.IsUsage() != tc.usage {
				t.Errorf("expected IsUsage=%v for %s", tc.usage, tc.err.Code)
			}
		})
	}
}

func TestAppError_NullArgument_Details(t *testing.T) {
	err := NullArgument("configureServices")
	if err.Details["argument"] != "configureServices" {
		t.Errorf("expected argument detail, got %v", err.Details["argument"])
	}
	if !strings.Contains(err.Message, "must not be nil") {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAppError_ExtensionFailed_Cause(t *testing.T) {
	cause := fmt.Errorf("module exploded")
	err := ExtensionFailed("metrics", cause)
	if err.Details["identifier"] != "metrics" {
		t.Errorf("expected identifier=metrics, got %v", err.Details["identifier"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "module exploded") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_StartupNotFound_Message(t *testing.T) {
	err := StartupNotFound("web", []string{"StartupDevelopment", "Startup"})
	if !strings.Contains(err.Message, "StartupDevelopment or Startup") {
		t.Errorf("expected both candidates in message, got %q", err.Message)
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotRegistered("svc").WithDetails(map[string]any{"extra": "info"})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["key"] != "svc" {
		t.Error("expected original details to be preserved")
	}

	err.WithDetail("another", "detail")
	if err.Details["another"] != "detail" {
		t.Error("expected another=detail to be merged")
	}
}

func TestAppError_WithDetails_Nil(t *testing.T) {
	err := Internal(nil).WithDetails(nil)
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized even with nil input")
	}
}

func TestFromPanic(t *testing.T) {
	t.Run("error value", func(t *testing.T) {
		cause := fmt.Errorf("bad")
		err := FromPanic(cause)
		if err.Code != ErrCodeInternal {
			t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
		}
		if !stderrors.Is(err, cause) {
			t.Error("expected cause to be preserved")
		}
	})

	t.Run("string value", func(t *testing.T) {
		err := FromPanic("oops")
		if !strings.Contains(err.Error(), "panic: oops") {
			t.Errorf("unexpected error %q", err.Error())
		}
		if err.Details["panic"] != true {
			t.Error("expected panic detail")
		}
	})
}

func TestIsCode_WalksChains(t *testing.T) {
	inner := ExtensionFailed("a", fmt.Errorf("x"))
	wrapped := fmt.Errorf("outer: %w", inner)
	agg := NewAggregate("hosting startups failed", []error{NotRegistered("k"), wrapped})

	if !IsCode(wrapped, ErrCodeExtensionFailed) {
		t.Error("expected code through %w wrapping")
	}
	if !IsCode(agg, ErrCodeExtensionFailed) {
		t.Error("expected code through aggregate")
	}
	if IsCode(agg, ErrCodeStartupLoad) {
		t.Error("did not expect STARTUP_LOAD_FAILED")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("nil error carries no code")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", InvalidOperation("twice"))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError in chain")
	}
	if appErr.Code != ErrCodeInvalidOperation {
		t.Errorf("expected INVALID_OPERATION, got %s", appErr.Code)
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("plain error is not an AppError")
	}
}

func TestNewAggregate(t *testing.T) {
	t.Run("no errors returns nil", func(t *testing.T) {
		if err := NewAggregate("none", nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
		if err := NewAggregate("none", []error{nil, nil}); err != nil {
			t.Errorf("expected nil for all-nil input, got %v", err)
		}
	})

	t.Run("keeps non-nil in order", func(t *testing.T) {
		e1 := fmt.Errorf("first")
		e2 := fmt.Errorf("second")
		err := NewAggregate("two failed", []error{e1, nil, e2})
		agg, ok := AsAggregate(err)
		if !ok {
			t.Fatal("expected AggregateError")
		}
		if agg.Len() != 2 {
			t.Fatalf("expected 2 errors, got %d", agg.Len())
		}
		if agg.Errors()[0] != e1 || agg.Errors()[1] != e2 {
			t.Error("expected order to be preserved")
		}
		if !stderrors.Is(err, e2) {
			t.Error("expected errors.Is to search inner errors")
		}
		if !strings.Contains(err.Error(), "two failed (2 errors)") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("errors copy is independent", func(t *testing.T) {
		err := NewAggregate("one", []error{fmt.Errorf("x")})
		agg, _ := AsAggregate(err)
		errs := agg.Errors()
		errs[0] = nil
		if agg.Errors()[0] == nil {
			t.Error("mutating the returned slice must not affect the aggregate")
		}
		if !strings.Contains(err.Error(), "(1 error)") {
			t.Errorf("expected singular form, got %q", err.Error())
		}
	})
}
