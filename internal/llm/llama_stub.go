//go:build !llama

package llm

import "context"

// LlamaBuilt indicates this binary was compiled with in-process llama support.
const LlamaBuilt = false

// NewLlamaLoader returns a Loader that fails fast: the in-process runtime is
// not part of this build.
func NewLlamaLoader() Loader {
	return LoaderFunc(func(context.Context, Options) (Engine, error) {
		return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
	})
}
