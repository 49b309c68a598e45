package voteplugin

import (
	"log/slog"

	httpadapter "votekit/contexts/content-engagement/vote-plugin/adapters/http"
	"votekit/contexts/content-engagement/vote-plugin/adapters/memory"
	"votekit/contexts/content-engagement/vote-plugin/application/commands"
	"votekit/contexts/content-engagement/vote-plugin/application/queries"
	"votekit/contexts/content-engagement/vote-plugin/domain/valueobjects"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/odm"
)

type Module struct {
	Handler httpadapter.Handler
	Plugin  Plugin
	Store   *memory.Store
}

type Dependencies struct {
	Plugin    Plugin
	Documents ports.DocumentRepository
	Events    ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Documents: deps.Documents,
		Votes:     deps.Plugin,
		Events:    deps.Events,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Schema:    deps.Plugin.Schema(),
		Logger:    deps.Logger,
	}
	votersUseCase := queries.VotersUseCase{
		Documents: deps.Documents,
		Votes:     deps.Plugin,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:  voteUseCase,
			Voters: votersUseCase,
			Logger: deps.Logger,
		},
		Plugin: deps.Plugin,
	}
}

// NewInMemoryModule applies the plugin to schema and backs it with a memory
// store seeded with document id -> voter ids.
func NewInMemoryModule(
	schema *odm.Schema,
	options valueobjects.Options,
	seed map[string][]string,
	logger *slog.Logger,
) (Module, error) {
	plugin, err := Apply(schema, options, logger)
	if err != nil {
		return Module{}, err
	}
	store := memory.NewStore(schema, plugin.VoteField(), seed)
	module := NewModule(Dependencies{
		Plugin:    plugin,
		Documents: store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module, nil
}
