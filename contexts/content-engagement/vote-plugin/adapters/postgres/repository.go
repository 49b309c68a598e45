package postgresadapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/odm"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the votes path as a jsonb column of the schema's table.
// Other columns of the table belong to the host application.
type Repository struct {
	db     *gorm.DB
	schema *odm.Schema
	field  ports.VoteField
	table  string
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, schema *odm.Schema, field ports.VoteField, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		schema: schema,
		field:  field,
		table:  TableName(schema.Name()),
		logger: logger,
	}
}

// TableName maps a schema name to its table, e.g. "BlogPost" -> "blog_posts".
func TableName(schemaName string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(schemaName) {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name == "" || strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

// Migrate creates the table and the votes column when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY)`, r.quotedTable()),
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s JSONB NOT NULL DEFAULT '[]'::jsonb`, r.quotedTable(), r.quotedColumn()),
	}
	for _, statement := range statements {
		if err := r.db.WithContext(ctx).Exec(statement).Error; err != nil {
			return r.logError("vote_repo_migrate_failed", err, "statement", statement)
		}
	}
	return nil
}

func (r *Repository) CreateDocument(ctx context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	doc, votes := r.build(documentID)

	create := r.db.WithContext(ctx).Table(r.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(map[string]any{
		"id":         documentID,
		r.field.Path: votes,
	})
	if create.Error != nil {
		return nil, r.mapError("vote_repo_create_document_failed", create.Error, documentID)
	}
	if create.RowsAffected == 0 {
		return nil, domainerrors.ErrDocumentExists
	}
	return doc, nil
}

func (r *Repository) GetDocument(ctx context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	doc, votes := r.build(documentID)
	if err := r.scanVotes(r.db.WithContext(ctx), documentID, votes, false); err != nil {
		return nil, r.mapError("vote_repo_get_document_failed", err, documentID)
	}
	return doc, nil
}

// UpdateDocument locks the row, applies mutate and writes the votes column
// back only when mutate reports a change.
func (r *Repository) UpdateDocument(ctx context.Context, documentID string, mutate ports.MutateFunc) error {
	documentID = strings.TrimSpace(documentID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, votes := r.build(documentID)
		if err := r.scanVotes(tx, documentID, votes, true); err != nil {
			return err
		}
		changed, err := mutate(doc)
		if err != nil || !changed {
			return err
		}
		current, ok := doc.Get(r.field.Path).(*entities.Votes)
		if !ok {
			return fmt.Errorf("%w: %s is %T", domainerrors.ErrIncompatibleVotes, r.field.Path, doc.Get(r.field.Path))
		}
		return tx.Table(r.table).
			Where("id = ?", documentID).
			Update(r.field.Path, current).
			Error
	})
	if err != nil {
		return r.mapError("vote_repo_update_document_failed", err, documentID)
	}
	return nil
}

func (r *Repository) scanVotes(tx *gorm.DB, documentID string, votes *entities.Votes, lock bool) error {
	query := tx.Table(r.table).Select(r.quotedColumn()).Where("id = ?", documentID)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	row := query.Row()
	if row == nil {
		return fmt.Errorf("select %s from %s returned no row handle", r.field.Path, r.table)
	}
	if err := row.Scan(votes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domainerrors.ErrDocumentNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) build(documentID string) (*odm.Document, *entities.Votes) {
	doc := r.schema.New(documentID)
	votes := r.field.NewVotes()
	doc.Set(r.field.Path, votes)
	return doc, votes
}

func (r *Repository) mapError(event string, err error, documentID string) error {
	switch {
	case errors.Is(err, domainerrors.ErrDocumentNotFound),
		errors.Is(err, domainerrors.ErrInvalidVoter),
		errors.Is(err, domainerrors.ErrIncompatibleVotes):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainerrors.ErrDocumentNotFound
	case isUniqueViolation(err):
		return domainerrors.ErrDocumentExists
	case isUndefinedColumn(err) || isUndefinedTable(err):
		return r.logError(event, fmt.Errorf("%w: %v", odm.ErrPathConflict, err),
			"document_id", documentID,
			"table", r.table,
			"path", r.field.Path,
		)
	}
	return r.logError(event, err, "document_id", documentID, "table", r.table)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "content-engagement/vote-plugin",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

func (r *Repository) quotedTable() string {
	return r.db.Statement.Quote(r.table)
}

func (r *Repository) quotedColumn() string {
	return r.db.Statement.Quote(r.field.Path)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42703"
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

var _ ports.DocumentRepository = (*Repository)(nil)
