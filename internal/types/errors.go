package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for compilation. Every CompileError wraps exactly one of these.
var (
	// ErrSyntax indicates the source text could not be parsed.
	ErrSyntax = errors.New("syntax error")

	// ErrSourceTooLong indicates the program exceeds the configured source length.
	ErrSourceTooLong = errors.New("program source too long")

	// ErrUnknownFunction indicates a call to an identifier missing from the registry.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrMissingArgument indicates a required parameter was not supplied.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrUnknownArgument indicates a keyword argument names no parameter.
	ErrUnknownArgument = errors.New("unknown argument keyword")

	// ErrDuplicateArgument indicates a parameter was bound more than once.
	ErrDuplicateArgument = errors.New("duplicate argument")

	// ErrTooManyArguments indicates more positional arguments than parameters.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrPositionalAfterKeyword indicates a positional argument following a keyword argument.
	ErrPositionalAfterKeyword = errors.New("positional argument after keyword argument")

	// ErrArgumentKind indicates an argument's kind set is not accepted by its parameter.
	ErrArgumentKind = errors.New("invalid argument type")

	// ErrInvalidArgument indicates a function-specific compile-time argument check failed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUndefinedVariable indicates a read of a local that was never assigned.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrPredicateKind indicates an if-predicate that is not exactly boolean.
	ErrPredicateKind = errors.New("predicate must resolve to a boolean")

	// ErrUnnecessaryCoalesce indicates an error-coalesce over an infallible expression.
	ErrUnnecessaryCoalesce = errors.New("unnecessary error coalesce")

	// ErrPathTooDeep indicates a field path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("field path exceeds maximum depth")

	// ErrUnknownEnrichmentTable indicates a reference to a table that is not loaded.
	ErrUnknownEnrichmentTable = errors.New("unknown enrichment table")
)

// Sentinel errors for resolution.
var (
	// ErrMalformedInput indicates event data that could not be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDivisionByZero indicates an integer division or remainder by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrIntegerOverflow indicates a 64-bit signed overflow under an error policy.
	ErrIntegerOverflow = errors.New("integer overflow")

	// ErrUnsoundTypeDef indicates a node produced a result outside its declared TypeDef.
	// This is a framework bug, never a user error.
	ErrUnsoundTypeDef = errors.New("result violates declared type definition")

	// ErrPayloadTooLarge indicates the event payload exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
)

// CompileError is a structured compile-time diagnostic.
// Compilation that returns a CompileError produces no program.
type CompileError struct {
	Span      Span   // offending source range
	Function  string // function identifier, if any
	Parameter string // parameter keyword, if any
	Expected  string // expected kind description, if any
	Actual    string // actual kind description, if any
	Message   string
	Cause     error // one of the compile sentinels above
}

// Error implements error.
func (e *CompileError) Error() string {
	msg := e.Cause.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Expected != "" || e.Actual != "" {
		msg = fmt.Sprintf("%s (expected %s, got %s)", msg, e.Expected, e.Actual)
	}
	return fmt.Sprintf("error at %s: %s", e.Span, msg)
}

// Unwrap exposes the sentinel cause for errors.Is.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for process configuration.
var (
	// ErrInvalidConfig indicates a configuration value outside its accepted range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSecretInConfig indicates a credential found in a configuration file.
	ErrSecretInConfig = errors.New("credentials must not be stored in config files")
)
