package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified error type for host composition.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// IsUsage reports whether the error is a caller-misuse error.
func (e *AppError) IsUsage() bool { return IsUsageCode(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InvalidOperation creates an error for an operation invoked in the wrong state.
func InvalidOperation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidOperation, Message: message}
}

// NullArgument creates an error for a required argument that was nil.
func NullArgument(name string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("argument %s must not be nil", name),
		Details: map[string]any{"argument": name},
	}
}

// InvalidArgument creates an error for a malformed argument.
func InvalidArgument(name, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid argument %s: %s", name, reason),
		Details: map[string]any{"argument": name},
	}
}

// NotRegistered creates an error for a contract with no registration.
func NotRegistered(key string) *AppError {
	return &AppError{
		Code: ErrCodeNotRegistered, Message: fmt.Sprintf("no service registered for %s", key),
		Details: map[string]any{"key": key},
	}
}

// CircularDependency creates an error for a resolution chain that loops.
func CircularDependency(chain []string) *AppError {
	return &AppError{
		Code:    ErrCodeCircularDependency,
		Message: fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		Details: map[string]any{"chain": chain},
	}
}

// ExtensionFailed wraps the failure of a hosting startup extension.
func ExtensionFailed(identifier string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeExtensionFailed,
		Message: fmt.Sprintf("hosting startup %s failed to execute", identifier),
		Details: map[string]any{"identifier": identifier},
		Cause:   cause,
	}
}

// StartupNotFound creates an error for an assembly without a matching startup type.
func StartupNotFound(assembly string, candidates []string) *AppError {
	return &AppError{
		Code: ErrCodeStartupNotFound,
		Message: fmt.Sprintf("a type named %s could not be found in assembly %s",
			strings.Join(candidates, " or "), assembly),
		Details: map[string]any{"assembly": assembly, "candidates": candidates},
	}
}

// StartupAmbiguous creates an error for more than one type matching a startup name.
func StartupAmbiguous(assembly, name string, matches []string) *AppError {
	return &AppError{
		Code: ErrCodeStartupAmbiguous,
		Message: fmt.Sprintf("more than one type in assembly %s matches %s: %s",
			assembly, name, strings.Join(matches, ", ")),
		Details: map[string]any{"assembly": assembly, "name": name, "matches": matches},
	}
}

// StartupLoad creates an error for a startup assembly that could not be loaded.
func StartupLoad(assembly string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeStartupLoad, Message: fmt.Sprintf("startup assembly %s could not be loaded", assembly),
		Details: map[string]any{"assembly": assembly}, Cause: cause,
	}
}

// StartupInvalid creates an error for a startup type with an unusable shape.
func StartupInvalid(typeName, reason string) *AppError {
	return &AppError{
		Code: ErrCodeStartupInvalid, Message: fmt.Sprintf("startup type %s is invalid: %s", typeName, reason),
		Details: map[string]any{"type": typeName},
	}
}

// Configuration wraps a configuration source failure.
func Configuration(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConfiguration, Message: fmt.Sprintf("configuration source %s failed to load", source),
		Details: map[string]any{"source": source}, Cause: cause,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred", Cause: cause,
	}
}

// FromPanic converts a recovered panic value into an error.
func FromPanic(recovered any) *AppError {
	if err, ok := recovered.(error); ok {
		return Internal(err).WithDetail("panic", true)
	}
	return Internal(fmt.Errorf("panic: %v", recovered)).WithDetail("panic", true)
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether any AppError in err's tree carries code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*AppError); ok && appErr.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if IsCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return IsCode(u.Unwrap(), code)
	}
	return false
}

// Is delegates to the standard library.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As delegates to the standard library.
func As(err error, target any) bool { return stderrors.As(err, target) }
