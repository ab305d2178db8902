package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Usage errors (never captured, never retried)
const (
	// ErrCodeInvalidOperation indicates an operation called in the wrong state.
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	// ErrCodeInvalidArgument indicates a nil or malformed required argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Registry errors
const (
	// ErrCodeNotRegistered indicates no descriptor exists for a contract.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeCircularDependency indicates a contract depends on itself.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
)

// Composition errors
const (
	// ErrCodeExtensionFailed indicates a hosting startup extension failed.
	ErrCodeExtensionFailed ErrorCode = "EXTENSION_FAILED"
	// ErrCodeStartupNotFound indicates no startup type matched the convention.
	ErrCodeStartupNotFound ErrorCode = "STARTUP_NOT_FOUND"
	// ErrCodeStartupAmbiguous indicates more than one startup type matched.
	ErrCodeStartupAmbiguous ErrorCode = "STARTUP_AMBIGUOUS"
	// ErrCodeStartupLoad indicates the startup assembly could not be loaded.
	ErrCodeStartupLoad ErrorCode = "STARTUP_LOAD_FAILED"
	// ErrCodeStartupInvalid indicates a startup type has an unusable shape.
	ErrCodeStartupInvalid ErrorCode = "STARTUP_INVALID"
)

// Configuration errors
const (
	// ErrCodeConfiguration indicates a configuration source failed to load.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeValidation indicates bound options failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
)

// ErrCodeInternal indicates an unexpected failure, including recovered panics.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var usageCodes = map[ErrorCode]bool{
	ErrCodeInvalidOperation: true,
	ErrCodeInvalidArgument:  true,
}

// IsUsageCode reports whether the code denotes caller misuse.
func IsUsageCode(code ErrorCode) bool {
	return usageCodes[code]
}
