package odm

import (
	"fmt"
	"sort"
)

// Document is one instance of a schema. It is not safe for concurrent use;
// callers own the instance they mutate.
type Document struct {
	id     string
	schema *Schema
	values map[string]any
}

func (d *Document) ID() string {
	return d.id
}

func (d *Document) Schema() *Schema {
	return d.schema
}

func (d *Document) Get(path string) any {
	return d.values[path]
}

func (d *Document) Set(path string, value any) {
	d.values[path] = value
}

// Fields lists the paths currently holding a value.
func (d *Document) Fields() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke calls a method registered on the document's schema.
func (d *Document) Invoke(name string, args ...any) error {
	fn, ok := d.schema.method(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrMethodNotFound, d.schema.Name(), name)
	}
	return fn(d, args...)
}
