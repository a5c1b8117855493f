package compiler

import (
	"strings"

	"github.com/okra-platform/faux/internal/contract"
)

// Validate confirms info describes an eligible contract: interface-shaped,
// publicly visible and non-generic. The first violated constraint is
// reported as a *ValidationError.
func Validate(info contract.TypeInfo) error {
	name := info.FullName()

	if !info.Interface {
		return &ValidationError{Contract: name, Constraint: ConstraintInterface}
	}

	if !info.Public {
		return &ValidationError{Contract: name, Constraint: ConstraintPublic}
	}

	if info.Generic() {
		return &ValidationError{
			Contract:   name,
			Constraint: ConstraintNonGeneric,
			Message:    "type parameters [" + strings.Join(info.TypeParams, ", ") + "]",
		}
	}

	return nil
}
