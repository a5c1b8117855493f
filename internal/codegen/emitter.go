// Package codegen turns compiled contracts into source text. Each target
// language lives in its own subpackage and is reached through the Registry.
package codegen

import (
	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/schema"
)

// Emitter renders compiled contracts for one target language
type Emitter interface {
	// Emit renders the client implementation of one contract
	Emit(c *compiler.Contract) ([]byte, error)

	// EmitModels renders the model types declared by an IDL schema, plus
	// whatever the contracts need next to them (e.g. Go interfaces).
	EmitModels(s *schema.Schema, contracts []*compiler.Contract) ([]byte, error)

	// Language returns the name of the target language
	Language() string

	// FileExtension returns the extension of generated files, with the dot
	FileExtension() string
}

// Options are the emitter settings taken from the configuration snapshot
type Options struct {
	// Namespace is the root package or module name of generated code
	Namespace string

	// Sealed hides implementation types behind their contract
	Sealed bool
}
