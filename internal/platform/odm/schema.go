// Package odm is the in-process document mapping layer: schemas with typed
// paths, plugin application, and documents carrying named instance methods.
package odm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrCast           = errors.New("cast failed")
	ErrPathConflict   = errors.New("schema path already defined with a different type")
	ErrInvalidPath    = errors.New("invalid schema path")
	ErrMethodNotFound = errors.New("document method not found")
)

// MethodFunc is an instance behavior bound to a document when invoked.
type MethodFunc func(doc *Document, args ...any) error

// PluginFunc augments a schema in place.
type PluginFunc func(schema *Schema) error

type Schema struct {
	mu      sync.RWMutex
	name    string
	fields  map[string]Field
	order   []string
	methods map[string]MethodFunc
}

func NewSchema(name string, fields map[string]Field) *Schema {
	s := &Schema{
		name:    strings.TrimSpace(name),
		fields:  make(map[string]Field, len(fields)),
		methods: make(map[string]MethodFunc),
	}
	names := make([]string, 0, len(fields))
	for path := range fields {
		names = append(names, path)
	}
	sort.Strings(names)
	for _, path := range names {
		s.fields[path] = fields[path]
		s.order = append(s.order, path)
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

// Path returns the definition of a named path.
func (s *Schema) Path(name string) (Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	field, ok := s.fields[name]
	return field, ok
}

// PathType is "real" for defined paths and "adhoc" otherwise.
func (s *Schema) PathType(name string) string {
	if _, ok := s.Path(name); ok {
		return "real"
	}
	return "adhoc"
}

// Paths lists defined paths in definition order.
func (s *Schema) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Define adds a path. Redefining a path with the same structural type keeps the
// existing definition; a different type fails with ErrPathConflict.
func (s *Schema) Define(name string, field Field) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidPath
	}
	if field.Type == "" {
		field.Type = Mixed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.fields[name]; ok {
		if existing.Type != field.Type {
			return fmt.Errorf("%w: %s.%s is %s, not %s", ErrPathConflict, s.name, name, existing.Type, field.Type)
		}
		return nil
	}
	s.fields[name] = field
	s.order = append(s.order, name)
	return nil
}

// Method registers a named instance behavior, replacing any previous one.
func (s *Schema) Method(name string, fn MethodFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methods[name] = fn
}

func (s *Schema) HasMethod(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.methods[name]
	return ok
}

// Methods lists registered method names in sorted order.
func (s *Schema) Methods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Schema) Plugin(fn PluginFunc) error {
	if fn == nil {
		return nil
	}
	return fn(s)
}

// New creates a document with every path set from its default.
func (s *Schema) New(id string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := &Document{
		id:     strings.TrimSpace(id),
		schema: s,
		values: make(map[string]any, len(s.fields)),
	}
	for _, path := range s.order {
		field := s.fields[path]
		switch {
		case field.Default != nil:
			doc.values[path] = field.Default()
		case field.Type == Array:
			doc.values[path] = []any{}
		}
	}
	return doc
}

func (s *Schema) method(name string) (MethodFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.methods[name]
	return fn, ok
}
