package preset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Factory constructs a fresh Recipe instance. Recipes are stateless so one
// instance per registration is sufficient, but a factory keeps the door
// open for recipes that hold per-instance render state.
type Factory func() Recipe

// LoadError reports a recipe that failed to register.
type LoadError struct {
	Name   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("preset %q failed to load: %s", e.Name, e.Reason)
}

// compileTimeFactories is the static registration table. Recipes call Register from
// their own init() function in recipes.go.
var compileTimeFactories = map[string]Factory{}

// Register adds a recipe factory to the compile-time table. Called only
// from recipe init() functions; a name collision at this stage is a build
// bug and panics immediately rather than surfacing at runtime.
func Register(name string, factory Factory) {
	if _, exists := compileTimeFactories[name]; exists {
		panic(fmt.Sprintf("preset: duplicate compile-time registration for %q", name))
	}
	compileTimeFactories[name] = factory
}

// entry is one loaded recipe plus its resolved parameter schema.
type entry struct {
	recipe Recipe
	schema Params
}

// Registry discovers recipes and publishes their name/schema snapshot.
// Readers see a consistent map; Reload swaps it atomically under mu.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates an empty Registry; call LoadAll to populate it.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// LoadAll builds the registry from the compile-time factory table. A factory that
// panics during construction is caught, logged, and skipped so one bad
// recipe never aborts the registry.
func (r *Registry) LoadAll() []error {
	names := make([]string, 0, len(compileTimeFactories))
	for name := range compileTimeFactories {
		names = append(names, name)
	}
	sort.Strings(names)

	next := make(map[string]entry, len(names))
	var errs []error
	for _, name := range names {
		rec, err := buildRecipe(compileTimeFactories[name])
		if err != nil {
			logrus.WithError(err).WithField("preset", name).Warn("preset failed to load, skipping")
			errs = append(errs, err)
			continue
		}
		if _, dup := next[rec.Name()]; dup {
			err := &LoadError{Name: rec.Name(), Reason: "duplicate recipe name"}
			logrus.WithError(err).Warn("rejecting duplicate preset registration")
			errs = append(errs, err)
			continue
		}
		next[rec.Name()] = entry{recipe: rec, schema: mergeSchema(rec.Schema())}
	}

	r.mu.Lock()
	r.entries = next
	r.mu.Unlock()
	return errs
}

func buildRecipe(factory Factory) (recipe Recipe, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &LoadError{Reason: fmt.Sprintf("panic during construction: %v", p)}
		}
	}()
	return factory(), nil
}

// Reload is equivalent to LoadAll; safe to call at runtime.
func (r *Registry) Reload() []error {
	return r.LoadAll()
}

// ParamsOf returns the accepted parameter names for name, or false if name is unknown.
func (r *Registry) ParamsOf(name string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return ParamNames(e.schema), true
}

// Recipe returns the loaded recipe and its schema for name, or false if
// unknown.
func (r *Registry) Recipe(name string) (Recipe, Params, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, nil, false
	}
	return e.recipe, e.schema, true
}

// Names returns every currently loaded preset name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Play looks up name, filters params against its schema, and builds a
// handle. An unknown name is reported via the bool return; callers should
// log and drop the command.
func (r *Registry) Play(name string, params Params) (*Handle, bool) {
	recipe, schema, ok := r.Recipe(name)
	if !ok {
		return nil, false
	}
	filtered := Filter(schema, params)
	return Play(recipe, filtered), true
}
