package featenc

import "sync"

// config holds construction options for an Engine.
type config struct {
	na         string
	hasNA      bool
	funcs      map[string]FeatureFunc
	postFuncs  map[string]PostprocessFunc
	mappingDir string
	baseDir    string
}

// Option configures an Engine at construction.
type Option func(*config)

// WithNA configures the substitute emitted when a feature produces no value.
// Under binary format the substitute is repeated once per one-hot position;
// under normal and numeric formats it is emitted as-is, unencoded. Without
// this option an absent value is a soft failure.
func WithNA(substitute string) Option {
	return func(c *config) {
		c.na = substitute
		c.hasNA = true
	}
}

// WithFuncs supplies the engine's named-function table, searched when a
// declaration resolves its evaluator by name. Takes precedence over the
// package-level table populated by Register.
func WithFuncs(funcs map[string]FeatureFunc) Option {
	return func(c *config) {
		c.funcs = funcs
	}
}

// WithPostprocessors supplies the engine's named postprocess table, searched
// when a declaration resolves its postprocess function by name.
func WithPostprocessors(funcs map[string]PostprocessFunc) Option {
	return func(c *config) {
		c.postFuncs = funcs
	}
}

// WithMappingDir pins dynamic mapping files to a single directory instead of
// the default candidate search (user cache dir, home dir, temp dir).
func WithMappingDir(dir string) Option {
	return func(c *config) {
		c.mappingDir = dir
	}
}

// WithBaseDir sets the directory that value-file paths are retried against
// when they do not open directly.
func WithBaseDir(dir string) Option {
	return func(c *config) {
		c.baseDir = dir
	}
}

// Package-level named-function tables. These are the compatibility path for
// declarations that name functions instead of referencing them; prefer Fn or
// WithFuncs.
var (
	globalMu        sync.RWMutex
	globalFuncs     = make(map[string]FeatureFunc)
	globalPostFuncs = make(map[string]PostprocessFunc)
)

// Register adds fn to the package-level named-function table under name.
// Later registrations overwrite earlier ones.
func Register(name string, fn FeatureFunc) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFuncs[name] = fn
}

// RegisterPostprocess adds fn to the package-level postprocess table under name.
func RegisterPostprocess(name string, fn PostprocessFunc) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalPostFuncs[name] = fn
}

// lookupFunc resolves an evaluator name: engine table first, then the
// package-level table.
func (c *config) lookupFunc(name string) (FeatureFunc, bool) {
	if fn, ok := c.funcs[name]; ok {
		return fn, true
	}
	globalMu.RLock()
	defer globalMu.RUnlock()
	fn, ok := globalFuncs[name]
	return fn, ok
}

// lookupPostprocess resolves a postprocess name through the same chain.
func (c *config) lookupPostprocess(name string) (PostprocessFunc, bool) {
	if fn, ok := c.postFuncs[name]; ok {
		return fn, true
	}
	globalMu.RLock()
	defer globalMu.RUnlock()
	fn, ok := globalPostFuncs[name]
	return fn, ok
}
