package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/faux/internal/contract"
)

// Test plan for Validate:
// 1. An interface that is public and non-generic passes
// 2. Each constraint fails independently with its own Constraint
// 3. The error names the contract and matches ErrValidation
// 4. Compile stops before analyzing methods when validation fails

func TestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name       string
		iface      bool
		public     bool
		params     []string
		constraint Constraint
	}{
		{name: "eligible", iface: true, public: true},
		{name: "not an interface", iface: false, public: true, constraint: ConstraintInterface},
		{name: "not public", iface: true, public: false, constraint: ConstraintPublic},
		{name: "generic", iface: true, public: true, params: []string{"T"}, constraint: ConstraintNonGeneric},
		{name: "struct takes precedence", iface: false, public: false, params: []string{"T"}, constraint: ConstraintInterface},
		{name: "private generic interface", iface: true, public: false, params: []string{"T"}, constraint: ConstraintPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := service()
			info.Interface = tt.iface
			info.Public = tt.public
			info.TypeParams = tt.params

			err := Validate(info)
			if tt.constraint == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.constraint, verr.Constraint)
			assert.Equal(t, "example.com/users.UserService", verr.Contract)
			assert.ErrorIs(t, err, ErrValidation)
			assert.NotErrorIs(t, err, ErrCompile)
			assert.Contains(t, err.Error(), "example.com/users.UserService")
		})
	}
}

func TestValidate_GenericNamesTypeParams(t *testing.T) {
	// Test: The generic violation lists the declared type parameters
	info := service()
	info.TypeParams = []string{"K", "V"}

	err := Validate(info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[K, V]")
}

func TestCompile_GenericContractAnalyzesNoMethods(t *testing.T) {
	// Test: A generic contract fails validation even when its methods are broken
	info := service(method("Broken", contract.Void))
	info.TypeParams = []string{"T"}

	c, err := Compile(info)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrCompile)
}
