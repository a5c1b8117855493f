package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okra-platform/faux/internal/contract"
)

func TestAnalyzeReturn(t *testing.T) {
	// Test: completion mode and effective shape depend only on the declared type
	custom := contract.Named("example.com/jobs", "jobs", "Job")
	custom.Embeds = []contract.TypeRef{contract.PointerTo(contract.TaskType())}

	tests := []struct {
		name     string
		declared contract.TypeRef
		mode     CompletionMode
		returns  contract.TypeRef
		void     bool
	}{
		{"sync value", userType(), Sync, userType(), false},
		{"sync void", contract.Void, Sync, contract.Void, true},
		{"sync slice", contract.SliceOf(userType()), Sync, contract.SliceOf(userType()), false},
		{"async value", contract.PointerTo(contract.FutureType(userType())), Async, userType(), false},
		{"async value without pointer", contract.FutureType(contract.Basic("string")), Async, contract.Basic("string"), false},
		{"async void", contract.PointerTo(contract.TaskType()), Async, contract.Void, true},
		{"derived wrapper without type argument", contract.PointerTo(custom), Async, contract.Void, true},
		{"same name in another package", contract.Named("example.com/other", "other", "Task"), Sync, contract.Named("example.com/other", "other", "Task"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := AnalyzeReturn(tt.declared)
			assert.Equal(t, tt.mode, shape.Mode)
			assert.True(t, tt.returns.Equal(shape.Returns), "got %s want %s", shape.Returns, tt.returns)
			assert.Equal(t, tt.void, shape.Void)

			// Idempotent
			assert.Equal(t, shape, AnalyzeReturn(tt.declared))
		})
	}
}

func TestCompletionMode_String(t *testing.T) {
	assert.Equal(t, "sync", Sync.String())
	assert.Equal(t, "async", Async.String())
}
