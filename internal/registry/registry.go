package registry

// Registry maps collection names to their schemas. It is built once at
// startup and read-only afterwards, so concurrent request handlers can
// share it without locking.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry registers every schema under its own name and under the
// pluralized name, so /user and /users resolve to the same collection.
func NewRegistry(schemas ...Schema) *Registry {
	registered := make(map[string]Schema, len(schemas)*2)
	for _, schema := range schemas {
		registered[schema.Name] = schema
		registered[schema.Name+"s"] = schema
	}

	return &Registry{
		schemas: registered,
	}
}

// Get resolves a collection name, plural aliases included. The returned
// schema keeps its canonical (singular) name.
func (r *Registry) Get(name string) (Schema, bool) {
	schema, ok := r.schemas[name]
	return schema, ok
}
