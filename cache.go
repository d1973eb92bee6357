package featenc

import "sync"

var (
	engines   = make(map[string]*Engine)
	enginesMu sync.RWMutex
)

// Use returns a cached engine or builds a new one. Engines are cached by
// name, so repeated calls with the same identity share mapping caches and the
// open dynamic mapping files.
func Use(name string, decls []Declaration, opts ...Option) (*Engine, error) {
	// Fast path: read-lock cache check
	enginesMu.RLock()
	if cached, ok := engines[name]; ok {
		enginesMu.RUnlock()
		return cached, nil
	}
	enginesMu.RUnlock()

	// Slow path: build and cache with write-lock
	enginesMu.Lock()
	defer enginesMu.Unlock()

	// Double-check pattern
	if cached, ok := engines[name]; ok {
		return cached, nil
	}

	engine, err := New(name, decls, opts...)
	if err != nil {
		return nil, err
	}

	engines[name] = engine
	return engine, nil
}

// Reset closes and clears every cached engine.
// This is primarily useful for test isolation.
func Reset() {
	enginesMu.Lock()
	defer enginesMu.Unlock()
	for _, engine := range engines {
		_ = engine.Close()
	}
	engines = make(map[string]*Engine)
}
