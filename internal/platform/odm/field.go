package odm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FieldType is the structural type of a schema path.
type FieldType string

const (
	String   FieldType = "String"
	ObjectID FieldType = "ObjectID"
	Boolean  FieldType = "Boolean"
	Number   FieldType = "Number"
	Date     FieldType = "Date"
	Array    FieldType = "Array"
	Mixed    FieldType = "Mixed"
)

// FieldOptions carries field-level settings that do not change the structural
// type of a path (select, default, index, ...).
type FieldOptions map[string]any

// Field describes one schema path. Array fields describe their elements with
// Caster.
type Field struct {
	Type    FieldType
	Ref     string
	Caster  *Field
	Options FieldOptions
	Default func() any
}

// Selected reports whether the path is returned by default on reads.
func (f Field) Selected() bool {
	if f.Options == nil {
		return true
	}
	selected, ok := f.Options["select"].(bool)
	return !ok || selected
}

// String renders the structural shape, e.g. "[ObjectID->User]".
func (f Field) String() string {
	if f.Type == Array {
		if f.Caster == nil {
			return "[" + string(Mixed) + "]"
		}
		return "[" + f.Caster.String() + "]"
	}
	if f.Ref != "" {
		return string(f.Type) + "->" + f.Ref
	}
	return string(f.Type)
}

// Cast converts a raw value into the representation stored for this field
// type. Only scalar element types used by array casters are supported.
func (f Field) Cast(value any) (any, error) {
	switch f.Type {
	case String:
		return castString(value)
	case ObjectID:
		return castObjectID(value)
	case Mixed:
		return value, nil
	default:
		return nil, fmt.Errorf("%w: no caster for %s", ErrCast, f.Type)
	}
}

func castString(value any) (string, error) {
	var out string
	switch v := value.(type) {
	case string:
		out = v
	case []byte:
		out = string(v)
	case fmt.Stringer:
		out = v.String()
	case bool:
		out = strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		out = fmt.Sprint(v)
	case float32:
		out = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		out = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return "", fmt.Errorf("%w: %T to %s", ErrCast, value, String)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: empty %s", ErrCast, String)
	}
	return out, nil
}

type objectIDer interface {
	ObjectID() uuid.UUID
}

type identified interface {
	ID() string
}

func castObjectID(value any) (uuid.UUID, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch v := value.(type) {
	case uuid.UUID:
		id = v
	case [16]byte:
		id = uuid.UUID(v)
	case string:
		id, err = uuid.Parse(strings.TrimSpace(v))
	case objectIDer:
		id = v.ObjectID()
	case identified:
		id, err = uuid.Parse(strings.TrimSpace(v.ID()))
	case fmt.Stringer:
		id, err = uuid.Parse(strings.TrimSpace(v.String()))
	default:
		return uuid.Nil, fmt.Errorf("%w: %T to %s", ErrCast, value, ObjectID)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrCast, err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: nil %s", ErrCast, ObjectID)
	}
	return id, nil
}
