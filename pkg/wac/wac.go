// Package wac is the public facade over internal/translator: it turns
// wac source files or in-memory sources into WAT module text.
package wac

import (
	"os"

	"github.com/cwbudde/go-wac/internal/ast"
	"github.com/cwbudde/go-wac/internal/translator"
)

// Option re-exports translator.Option so callers never need to import
// internal/translator directly.
type Option = translator.Option

// WithCallTracing turns on the optional call-tracing mode (trap function
// and reserved stack region; calls are not instrumented).
func WithCallTracing(enabled bool) Option { return translator.WithCallTracing(enabled) }

// CompileSources compiles already-loaded sources into WAT module text.
func CompileSources(sources []*ast.Source, opts ...Option) (string, error) {
	return translator.Translate(sources, opts...)
}

// CompileFiles reads each path, compiles them together as one program, and
// returns the assembled WAT text.
func CompileFiles(paths []string, opts ...Option) (string, error) {
	sources := make([]*ast.Source, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		sources[i] = &ast.Source{Name: p, Data: string(data)}
	}
	return CompileSources(sources, opts...)
}
