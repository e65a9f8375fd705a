// Package module loads EXIN source files and caches them by name, adapted
// from the teacher's own ModuleLoader cache/searchPath pattern
// (internal/module/module.go) and grounded on the original implementation's
// module.c: a module is nothing more than a name and a buffer of source
// text, loaded once and kept in a process-wide cache so "import" is
// idempotent.
package module

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/exin-lang/exin/internal/errors"
)

// Module is one loaded source file. Code always ends with two newlines, the
// same padding module.c's load() appends so the scanner never runs off the
// end of the buffer mid-token.
type Module struct {
	Name string
	Code string
}

// Loader caches modules by name under a mutex, mirroring the teacher's own
// ModuleLoader.cache/mu pair, and resolves bare import names against a
// search path the way getDefaultSearchPath() does.
type Loader struct {
	mu         sync.RWMutex
	cache      map[string]*Module
	SearchPath []string
}

// NewLoader returns an empty module cache that looks in the current
// directory first, then its "lib" subdirectory.
func NewLoader() *Loader {
	return &Loader{
		cache:      make(map[string]*Module),
		SearchPath: []string{".", "./lib"},
	}
}

// Search returns the already-loaded module with this name, or nil
// (module.c's search()).
func (l *Loader) Search(name string) *Module {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

// Load resolves name against the search path, reads it from disk, registers
// it in the cache, and returns it. A name already cached is returned
// unchanged without touching disk again, matching "import only done once".
func (l *Loader) Load(name string) (*Module, error) {
	if m := l.Search(name); m != nil {
		return m, nil
	}

	path := name
	if _, err := os.Stat(path); err != nil {
		for _, dir := range l.SearchPath {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.SystemError, "error importing %s: %s", name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.cache[name]; ok {
		return m, nil
	}
	m := &Module{Name: name, Code: string(data) + "\n\n"}
	l.cache[name] = m
	return m, nil
}

// LoadSource registers in-memory source under name without touching disk,
// used for the top-level script named on the command line and for the REPL.
func (l *Loader) LoadSource(name, code string) *Module {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := &Module{Name: name, Code: code + "\n\n"}
	l.cache[name] = m
	return m
}
