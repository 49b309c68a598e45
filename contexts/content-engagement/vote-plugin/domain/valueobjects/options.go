package valueobjects

import "strings"

const (
	DefaultPath             = "votes"
	DefaultVoteMethodName   = "vote"
	DefaultUnvoteMethodName = "unvote"
)

// StructuralKeys are field option keys owned by the plugin. Caller supplied
// values for them are dropped.
var StructuralKeys = []string{"type", "ref"}

// FieldOptions are field-level settings such as select, default or index.
type FieldOptions map[string]any

// VoteOptions configures the entries of the votes path.
type VoteOptions struct {
	// Ref names the schema referenced by each entry. Empty stores tokens.
	Ref     string
	Options FieldOptions
}

// Options configures the plugin. Empty strings and nil maps mean "unset" so a
// caller only states what differs from the defaults.
type Options struct {
	Path             string
	Options          FieldOptions
	VoteMethodName   string
	UnvoteMethodName string
	Votes            VoteOptions

	// Model is the older spelling of Votes.Ref and only applies when Votes.Ref
	// is unset.
	Model string
}

func DefaultOptions() Options {
	return Options{
		Path:             DefaultPath,
		Options:          FieldOptions{},
		VoteMethodName:   DefaultVoteMethodName,
		UnvoteMethodName: DefaultUnvoteMethodName,
		Votes: VoteOptions{
			Options: FieldOptions{},
		},
	}
}

// Resolve merges layers over the defaults, later layers winning.
func Resolve(layers ...Options) Options {
	out := DefaultOptions()
	for _, layer := range layers {
		out = Merge(out, layer)
	}
	if out.Votes.Ref == "" && out.Model != "" {
		out.Votes.Ref = out.Model
	}
	return out
}

// Merge returns base overridden by every value set in override. Option maps
// merge per key, recursively for nested maps. Neither input is modified.
func Merge(base Options, override Options) Options {
	return Options{
		Path:             pick(base.Path, override.Path),
		Options:          MergeFieldOptions(base.Options, override.Options),
		VoteMethodName:   pick(base.VoteMethodName, override.VoteMethodName),
		UnvoteMethodName: pick(base.UnvoteMethodName, override.UnvoteMethodName),
		Votes: VoteOptions{
			Ref:     pick(base.Votes.Ref, override.Votes.Ref),
			Options: MergeFieldOptions(base.Votes.Options, override.Votes.Options),
		},
		Model: pick(base.Model, override.Model),
	}
}

// EntryRef is the referenced schema name, or empty for token entries.
func (o Options) EntryRef() string {
	if ref := strings.TrimSpace(o.Votes.Ref); ref != "" {
		return ref
	}
	return strings.TrimSpace(o.Model)
}

func MergeFieldOptions(base FieldOptions, override FieldOptions) FieldOptions {
	return FieldOptions(mergeMaps(base, override))
}

// WithoutStructural copies the options without StructuralKeys.
func (o FieldOptions) WithoutStructural() FieldOptions {
	out := FieldOptions(mergeMaps(o, nil))
	for _, key := range StructuralKeys {
		delete(out, key)
	}
	return out
}

func pick(base string, override string) string {
	if value := strings.TrimSpace(override); value != "" {
		return value
	}
	return base
}

func mergeMaps(base map[string]any, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		out[key] = cloneValue(value)
	}
	for key, value := range override {
		baseNested, baseIsMap := asMap(out[key])
		overrideNested, overrideIsMap := asMap(value)
		if baseIsMap && overrideIsMap {
			out[key] = mergeMaps(baseNested, overrideNested)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	if nested, ok := asMap(value); ok {
		return mergeMaps(nested, nil)
	}
	return value
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case FieldOptions:
		return map[string]any(v), true
	default:
		return nil, false
	}
}
