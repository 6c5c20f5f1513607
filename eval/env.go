package eval

// Env[T] holds name bindings for an evaluation pass, with basic scoping via
// the outer environment. The evaluator pushes a fresh layer when expanding a
// user function so parameter bindings shadow outer names.
type Env[T any] struct {
	store map[string]T
	outer *Env[T]
}

// NewEnv creates a new environment nested within an outer one. If outer is
// nil then returns a fresh top-level environment.
func NewEnv[T any](outer *Env[T]) *Env[T] {
	return &Env[T]{store: make(map[string]T), outer: outer}
}

// Get retrieves a value by name. It checks the current environment first,
// then recursively checks outer environments.
func (e *Env[T]) Get(name string) (out T, found bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return
}

func (e *Env[T]) Set(key string, value T) {
	e.store[key] = value
}

// SetMany sets multiple key/values at once.
func (e *Env[T]) SetMany(kvpairs map[string]T) {
	for k, v := range kvpairs {
		e.Set(k, v)
	}
}

func (e *Env[T]) Push() *Env[T] {
	return NewEnv(e)
}

// Extend creates a nested environment pre-populated with the given bindings.
func (e *Env[T]) Extend(kvpairs map[string]T) *Env[T] {
	out := e.Push()
	out.SetMany(kvpairs)
	return out
}

// Keys returns all keys in this environment (not including outer layers).
func (e *Env[T]) Keys() []string {
	keys := make([]string, 0, len(e.store))
	for k := range e.store {
		keys = append(keys, k)
	}
	return keys
}
