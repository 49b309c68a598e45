package voteplugin

import (
	"fmt"
	"log/slog"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/domain/valueobjects"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/odm"
)

// Plugin is the vote behavior bound to one schema. The same behaviors are
// reachable dynamically through the registered method names.
type Plugin struct {
	schema  string
	options valueobjects.Options
	field   odm.Field
	kind    entities.VoterKind
	ref     string
}

// PluginFunc adapts Apply to odm.Schema.Plugin.
func PluginFunc(options valueobjects.Options, logger *slog.Logger) odm.PluginFunc {
	return func(schema *odm.Schema) error {
		_, err := Apply(schema, options, logger)
		return err
	}
}

// Apply adds the votes path (unless an array path of that name exists) and
// registers the vote and unvote methods. Applying it twice is harmless.
func Apply(schema *odm.Schema, options valueobjects.Options, logger *slog.Logger) (Plugin, error) {
	if logger == nil {
		logger = slog.Default()
	}
	resolved := valueobjects.Resolve(options)

	p := Plugin{
		schema:  schema.Name(),
		options: resolved,
	}
	if err := schema.Define(resolved.Path, p.buildField()); err != nil {
		logger.Error("votes path definition failed",
			"event", "vote_plugin_define_failed",
			"module", "content-engagement/vote-plugin",
			"layer", "plugin",
			"schema", schema.Name(),
			"path", resolved.Path,
			"error", err.Error(),
		)
		return Plugin{}, err
	}

	// An existing array path keeps its own element type.
	p.field, _ = schema.Path(resolved.Path)
	p.kind, p.ref = entities.VoterKindToken, ""
	if p.field.Caster != nil && p.field.Caster.Type == odm.ObjectID {
		p.kind, p.ref = entities.VoterKindRef, p.field.Caster.Ref
	}

	schema.Method(resolved.VoteMethodName, func(doc *odm.Document, args ...any) error {
		return p.each(doc, args, p.Vote)
	})
	schema.Method(resolved.UnvoteMethodName, func(doc *odm.Document, args ...any) error {
		return p.each(doc, args, p.Unvote)
	})

	logger.Debug("vote plugin applied",
		"event", "vote_plugin_applied",
		"module", "content-engagement/vote-plugin",
		"layer", "plugin",
		"schema", schema.Name(),
		"path", resolved.Path,
		"field", p.field.String(),
		"vote_method", resolved.VoteMethodName,
		"unvote_method", resolved.UnvoteMethodName,
	)
	return p, nil
}

// buildField lays caller options under the structural definition so type and
// ref always come from the plugin.
func (p Plugin) buildField() odm.Field {
	caster := odm.Field{
		Type:    odm.String,
		Options: odm.FieldOptions(p.options.Votes.Options.WithoutStructural()),
	}
	kind, ref := entities.VoterKindToken, ""
	if entryRef := p.options.EntryRef(); entryRef != "" {
		caster.Type = odm.ObjectID
		caster.Ref = entryRef
		kind, ref = entities.VoterKindRef, entryRef
	}
	return odm.Field{
		Type:    odm.Array,
		Caster:  &caster,
		Options: odm.FieldOptions(p.options.Options.WithoutStructural()),
		Default: func() any {
			return entities.NewVotes(kind, ref)
		},
	}
}

// Schema is the name of the schema the plugin was applied to.
func (p Plugin) Schema() string {
	return p.schema
}

func (p Plugin) Options() valueobjects.Options {
	return p.options
}

func (p Plugin) Path() string {
	return p.options.Path
}

func (p Plugin) Selected() bool {
	return p.field.Selected()
}

func (p Plugin) Field() odm.Field {
	return p.field
}

func (p Plugin) Kind() entities.VoterKind {
	return p.kind
}

// VoteField describes the votes path for storage adapters.
func (p Plugin) VoteField() ports.VoteField {
	return ports.VoteField{
		Path:     p.options.Path,
		NewVotes: p.NewVotes,
	}
}

func (p Plugin) NewVotes() *entities.Votes {
	return entities.NewVotes(p.kind, p.ref)
}

// Cast converts raw input into a voter using the element caster of the path.
func (p Plugin) Cast(raw any) (entities.Voter, error) {
	if voter, ok := raw.(entities.Voter); ok {
		raw = voter.ID
	}
	caster := odm.Field{Type: odm.String}
	if p.field.Caster != nil {
		caster = *p.field.Caster
	}
	value, err := caster.Cast(raw)
	if err != nil {
		return entities.Voter{}, fmt.Errorf("%w: %v", domainerrors.ErrInvalidVoter, err)
	}
	if p.kind == entities.VoterKindRef {
		return entities.RefVoter(p.ref, fmt.Sprint(value)), nil
	}
	return entities.TokenVoter(fmt.Sprint(value)), nil
}

// Vote adds voter to the document unless already present.
func (p Plugin) Vote(doc ports.Document, raw any) (bool, error) {
	voter, err := p.Cast(raw)
	if err != nil {
		return false, err
	}
	votes, err := p.votesOf(doc)
	if err != nil {
		return false, err
	}
	return votes.Add(voter), nil
}

// Unvote removes voter from the document; an absent voter is a no-op.
func (p Plugin) Unvote(doc ports.Document, raw any) (bool, error) {
	voter, err := p.Cast(raw)
	if err != nil {
		return false, err
	}
	votes, err := p.votesOf(doc)
	if err != nil {
		return false, err
	}
	return votes.Remove(voter), nil
}

func (p Plugin) HasVoted(doc ports.Document, raw any) (bool, error) {
	voter, err := p.Cast(raw)
	if err != nil {
		return false, err
	}
	votes, err := p.votesOf(doc)
	if err != nil {
		return false, err
	}
	return votes.Contains(voter), nil
}

func (p Plugin) Voters(doc ports.Document) ([]entities.Voter, error) {
	votes, err := p.votesOf(doc)
	if err != nil {
		return nil, err
	}
	return votes.Items(), nil
}

// Votes returns the live set held by the document.
func (p Plugin) Votes(doc ports.Document) (*entities.Votes, error) {
	return p.votesOf(doc)
}

func (p Plugin) Count(doc ports.Document) (int, error) {
	votes, err := p.votesOf(doc)
	if err != nil {
		return 0, err
	}
	return votes.Len(), nil
}

func (p Plugin) votesOf(doc ports.Document) (*entities.Votes, error) {
	switch value := doc.Get(p.options.Path).(type) {
	case *entities.Votes:
		if value != nil {
			return value, nil
		}
	case nil:
	case []string:
		votes := p.NewVotes()
		votes.Reset(value)
		doc.Set(p.options.Path, votes)
		return votes, nil
	case []any:
		votes := p.NewVotes()
		for _, item := range value {
			voter, err := p.Cast(item)
			if err != nil {
				return nil, err
			}
			votes.Add(voter)
		}
		doc.Set(p.options.Path, votes)
		return votes, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", domainerrors.ErrIncompatibleVotes, p.options.Path, value)
	}
	votes := p.NewVotes()
	doc.Set(p.options.Path, votes)
	return votes, nil
}

func (p Plugin) each(doc *odm.Document, args []any, apply func(ports.Document, any) (bool, error)) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no voter given", domainerrors.ErrInvalidVoter)
	}
	for _, arg := range args {
		if _, err := apply(doc, arg); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.VoteBehavior = Plugin{}
