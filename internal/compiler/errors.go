package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is()
var (
	// ErrValidation indicates a contract is not eligible for translation
	ErrValidation = errors.New("contract validation failed")

	// ErrCompile indicates a conflicting or unsupported annotation combination
	ErrCompile = errors.New("web service compile error")
)

// Constraint names a contract eligibility rule
type Constraint string

const (
	ConstraintInterface  Constraint = "must be an interface"
	ConstraintPublic     Constraint = "must be public"
	ConstraintNonGeneric Constraint = "must not be generic"
)

// ValidationError reports a contract that failed eligibility checks.
// Generation for the contract aborts entirely.
type ValidationError struct {
	Contract   string
	Constraint Constraint
	Message    string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Contract, e.Constraint)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CompileError reports an annotation combination the compiler cannot
// translate. It aborts the whole contract, never just one method.
type CompileError struct {
	Contract  string
	Method    string
	Parameter string
	// Annotations lists the conflicting annotation names, if any
	Annotations []string
	Message     string
	Pos         string
}

// Error returns a human-readable error message.
func (e *CompileError) Error() string {
	var sb strings.Builder
	sb.WriteString("compile error")
	if e.Pos != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Pos)
	}
	if e.Contract != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Contract)
		if e.Method != "" {
			sb.WriteByte('.')
			sb.WriteString(e.Method)
		}
	}
	if e.Parameter != "" {
		sb.WriteString(" (parameter ")
		sb.WriteString(e.Parameter)
		sb.WriteByte(')')
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Annotations) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(e.Annotations, ", "))
		sb.WriteByte(']')
	}
	return sb.String()
}

// Is reports whether target matches this error type.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}
