package codegen

import (
	"github.com/okra-platform/faux/internal/codegen/golang"
	"github.com/okra-platform/faux/internal/codegen/openapi"
	"github.com/okra-platform/faux/internal/codegen/typescript"
)

// DefaultRegistry is the global registry instance with pre-registered emitters
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register("go", func(opts Options) Emitter {
		return golang.NewEmitter(opts.Namespace, opts.Sealed)
	})

	DefaultRegistry.Register("typescript", func(opts Options) Emitter {
		return typescript.NewEmitter()
	})

	// ts is an alias for typescript
	DefaultRegistry.Register("ts", func(opts Options) Emitter {
		return typescript.NewEmitter()
	})

	DefaultRegistry.Register("openapi", func(opts Options) Emitter {
		return openapi.NewEmitter(opts.Namespace)
	})
}
