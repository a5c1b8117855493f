package codegen

import (
	"fmt"
	"sort"
)

// Factory creates an emitter for the given options
type Factory func(opts Options) Emitter

// Registry manages available emitters
type Registry struct {
	emitters map[string]Factory
}

// NewRegistry creates a new emitter registry
func NewRegistry() *Registry {
	return &Registry{
		emitters: make(map[string]Factory),
	}
}

// Register adds an emitter factory under a language name
func (r *Registry) Register(language string, factory Factory) {
	r.emitters[language] = factory
}

// Get returns an emitter for the specified language
func (r *Registry) Get(language string, opts Options) (Emitter, error) {
	factory, exists := r.emitters[language]
	if !exists {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	return factory(opts), nil
}

// Languages returns the supported languages in sorted order
func (r *Registry) Languages() []string {
	languages := make([]string, 0, len(r.emitters))
	for lang := range r.emitters {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}
