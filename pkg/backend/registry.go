package backend

import (
	"sort"
	"strings"
	"sync"

	"github.com/datashard/materialize/pkg/errors"
	"github.com/datashard/materialize/pkg/logger"
	"go.uber.org/zap"
)

// Registry maps backend identifiers to their canonical singletons. Aliasing
// is many-to-one and case-insensitive; resolving any alias, or a backend
// instance, returns the same registered singleton.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	aliases  map[string]string
	logger   *zap.Logger
}

// NewRegistry creates an empty backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
		aliases:  make(map[string]string),
		logger:   logger.Get().With(zap.String("component", "backend_registry")),
	}
}

// Global registry instance, populated once at startup and read-only
// thereafter
var globalRegistry = NewRegistry()

func init() {
	globalRegistry.MustRegister(&numpyBackend{}, "numpy")
	globalRegistry.MustRegister(&awkwardBackend{}, "awkward", "awkward1")
	globalRegistry.MustRegister(&pandasBackend{}, "pandas")
	globalRegistry.MustRegister(&cupyBackend{}, "cupy")
}

// Register adds a backend under its canonical name plus any aliases
func (r *Registry) Register(b Backend, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	canonical := strings.ToLower(b.Name())
	if _, exists := r.backends[canonical]; exists {
		return errors.Newf(errors.ErrorTypeValidation, "backend %q already registered", canonical)
	}
	r.backends[canonical] = b
	for _, alias := range aliases {
		key := strings.ToLower(alias)
		if _, exists := r.aliases[key]; exists {
			return errors.Newf(errors.ErrorTypeValidation, "backend alias %q already registered", key)
		}
		if _, exists := r.backends[key]; exists {
			return errors.Newf(errors.ErrorTypeValidation, "backend alias %q collides with a canonical name", key)
		}
		r.aliases[key] = canonical
	}

	r.logger.Debug("backend registered",
		zap.String("name", canonical),
		zap.Strings("aliases", aliases))
	return nil
}

// MustRegister registers a backend and panics on conflict; used for the
// startup population of the global registry
func (r *Registry) MustRegister(b Backend, aliases ...string) {
	if err := r.Register(b, aliases...); err != nil {
		panic(err)
	}
}

// Resolve maps an identifier to its canonical backend singleton. The
// identifier may be a canonical name, a case-insensitive alias, or a Backend
// instance (resolved through its name, so foreign instances canonicalize to
// the registered singleton).
func (r *Registry) Resolve(identifier interface{}) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var name string
	switch id := identifier.(type) {
	case Backend:
		name = strings.ToLower(id.Name())
	case string:
		name = strings.ToLower(id)
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"backend identifier must be a name or a Backend, not %T", identifier)
	}

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	if b, ok := r.backends[name]; ok {
		return b, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "unrecognized backend: %q", name)
}

// Names returns the sorted canonical backend names
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps an identifier to a backend in the global registry
func Resolve(identifier interface{}) (Backend, error) {
	return globalRegistry.Resolve(identifier)
}

// MustResolve resolves an identifier in the global registry and panics if it
// is unknown
func MustResolve(identifier interface{}) Backend {
	b, err := globalRegistry.Resolve(identifier)
	if err != nil {
		panic(err)
	}
	return b
}

// Names returns the canonical backend names of the global registry
func Names() []string {
	return globalRegistry.Names()
}

// Default returns the global registry
func Default() *Registry {
	return globalRegistry
}
