package odm

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func blogSchema() *Schema {
	return NewSchema("Blog", map[string]Field{
		"title":   {Type: String},
		"blog":    {Type: String},
		"created": {Type: Date},
	})
}

func TestDefineKeepsExistingPathOfSameType(t *testing.T) {
	schema := blogSchema()
	if err := schema.Define("tags", Field{Type: Array, Caster: &Field{Type: String}}); err != nil {
		t.Fatalf("define tags failed: %v", err)
	}
	if err := schema.Define("tags", Field{Type: Array, Caster: &Field{Type: ObjectID, Ref: "Tag"}}); err != nil {
		t.Fatalf("redefine tags failed: %v", err)
	}
	field, ok := schema.Path("tags")
	if !ok {
		t.Fatalf("expected tags path")
	}
	if field.String() != "[String]" {
		t.Fatalf("expected first definition to survive, got %s", field)
	}
}

func TestDefineRejectsIncompatibleType(t *testing.T) {
	schema := blogSchema()
	err := schema.Define("title", Field{Type: Array, Caster: &Field{Type: String}})
	if !errors.Is(err, ErrPathConflict) {
		t.Fatalf("expected path conflict, got %v", err)
	}
}

func TestPathType(t *testing.T) {
	schema := blogSchema()
	if got := schema.PathType("title"); got != "real" {
		t.Fatalf("expected real, got %s", got)
	}
	if got := schema.PathType("votes"); got != "adhoc" {
		t.Fatalf("expected adhoc, got %s", got)
	}
}

func TestSelectedHonoursSelectOption(t *testing.T) {
	if !(Field{Type: String}).Selected() {
		t.Fatalf("expected field without options to be selected")
	}
	if (Field{Type: String, Options: FieldOptions{"select": false}}).Selected() {
		t.Fatalf("expected select=false to hide field")
	}
}

func TestNewDocumentUsesDefaults(t *testing.T) {
	schema := blogSchema()
	if err := schema.Define("likes", Field{Type: Array, Caster: &Field{Type: String}}); err != nil {
		t.Fatalf("define failed: %v", err)
	}
	if err := schema.Define("count", Field{Type: Number, Default: func() any { return 0 }}); err != nil {
		t.Fatalf("define failed: %v", err)
	}

	doc := schema.New("doc-1")
	if items, ok := doc.Get("likes").([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty array default, got %#v", doc.Get("likes"))
	}
	if doc.Get("count") != 0 {
		t.Fatalf("expected count default 0, got %v", doc.Get("count"))
	}
}

func TestInvokeCallsRegisteredMethod(t *testing.T) {
	schema := blogSchema()
	schema.Method("touch", func(doc *Document, args ...any) error {
		doc.Set("title", args[0])
		return nil
	})

	doc := schema.New("doc-1")
	if err := doc.Invoke("touch", "hello"); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if doc.Get("title") != "hello" {
		t.Fatalf("expected title to be set, got %v", doc.Get("title"))
	}
	if err := doc.Invoke("missing"); !errors.Is(err, ErrMethodNotFound) {
		t.Fatalf("expected method not found, got %v", err)
	}
}

func TestCastObjectID(t *testing.T) {
	caster := Field{Type: ObjectID, Ref: "User"}
	id := uuid.New()

	for _, raw := range []any{id, id.String(), [16]byte(id), NewSchema("User", nil).New(id.String())} {
		got, err := caster.Cast(raw)
		if err != nil {
			t.Fatalf("cast %T failed: %v", raw, err)
		}
		if got != id {
			t.Fatalf("expected %s, got %v", id, got)
		}
	}

	if _, err := caster.Cast("not-an-id"); !errors.Is(err, ErrCast) {
		t.Fatalf("expected cast error, got %v", err)
	}
	if _, err := caster.Cast(uuid.Nil); !errors.Is(err, ErrCast) {
		t.Fatalf("expected nil id to be rejected, got %v", err)
	}
}

func TestCastString(t *testing.T) {
	caster := Field{Type: String}
	got, err := caster.Cast("alice")
	if err != nil || got != "alice" {
		t.Fatalf("expected alice, got %v (%v)", got, err)
	}
	if _, err := caster.Cast("  "); !errors.Is(err, ErrCast) {
		t.Fatalf("expected blank string to be rejected, got %v", err)
	}
	if _, err := caster.Cast(struct{}{}); !errors.Is(err, ErrCast) {
		t.Fatalf("expected struct to be rejected, got %v", err)
	}
}

func TestCastStringScalars(t *testing.T) {
	caster := Field{Type: String}
	cases := []struct {
		in   any
		want string
	}{
		{int32(7), "7"},
		{int8(-3), "-3"},
		{uint16(12), "12"},
		{uint(9), "9"},
		{3.5, "3.5"},
		{float32(0.25), "0.25"},
		{1e21, "1000000000000000000000"},
		{true, "true"},
		{false, "false"},
		{[]byte("bob"), "bob"},
	}
	for _, tc := range cases {
		got, err := caster.Cast(tc.in)
		if err != nil {
			t.Fatalf("cast %T(%v) failed: %v", tc.in, tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("cast %T(%v): expected %q, got %q", tc.in, tc.in, tc.want, got)
		}
	}
}
