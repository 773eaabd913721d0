package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const bracketMappingsTable = "bracket_mappings"

type bracketMappingRow struct {
	ID          int            `db:"id" fieldtag:"pk"`
	TagName     string         `db:"tag_name" fieldtag:"write"`
	ObjectPath  string         `db:"object_path" fieldtag:"write"`
	Description sql.NullString `db:"description" fieldtag:"write"`
	SystemTag   bool           `db:"system_tag" fieldtag:"write"`
}

var bracketMappingStruct = database.NewStruct(new(bracketMappingRow))

func newBracketMappingRow(m *models.BracketMapping) *bracketMappingRow {
	var path string
	if m.ObjectPath != nil {
		path = *m.ObjectPath
	}
	return &bracketMappingRow{
		ID:          m.ID,
		TagName:     m.TagName,
		ObjectPath:  path,
		Description: toNullString(m.Description),
		SystemTag:   m.SystemTag,
	}
}

func (row bracketMappingRow) toModel() models.BracketMapping {
	path := row.ObjectPath
	return models.BracketMapping{
		ID:          row.ID,
		TagName:     row.TagName,
		ObjectPath:  &path,
		Description: fromNullString(row.Description),
		SystemTag:   row.SystemTag,
	}
}

type BracketMappingRepository struct {
	*Repository
}

func NewBracketMappingRepository(db database.DB, logger ectologger.Logger) *BracketMappingRepository {
	return &BracketMappingRepository{Repository: NewRepository(db, logger)}
}

// List returns mappings in id order, which is the order tag lookups honor.
func (r *BracketMappingRepository) List(ctx context.Context) ([]models.BracketMapping, error) {
	ctx, span := tracing.StartSpan(ctx, "BracketMappingRepository.List")
	defer span.End()

	sb := bracketMappingStruct.SelectFrom(bracketMappingsTable)
	sb.OrderBy("id")
	query, args := sb.Build()

	var rows []bracketMappingRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list bracket mappings", nil)
	}

	out := make([]models.BracketMapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *BracketMappingRepository) GetByID(ctx context.Context, id int) (*models.BracketMapping, error) {
	ctx, span := tracing.StartSpan(ctx, "BracketMappingRepository.GetByID")
	defer span.End()

	sb := bracketMappingStruct.SelectFrom(bracketMappingsTable)
	sb.Where(sb.Equal("id", id))
	query, args := sb.Build()

	var row bracketMappingRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("Bracket mapping with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get bracket mapping", map[string]any{"id": id})
	}

	m := row.toModel()
	return &m, nil
}

func (r *BracketMappingRepository) Create(ctx context.Context, m *models.BracketMapping) error {
	ctx, span := tracing.StartSpan(ctx, "BracketMappingRepository.Create")
	defer span.End()

	ib := bracketMappingStruct.InsertIntoWithTag("write", bracketMappingsTable, newBracketMappingRow(m)).Returning("id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&m.ID); err != nil {
		return r.fail(ctx, err, "create bracket mapping", map[string]any{"tag_name": m.TagName})
	}
	return nil
}

func (r *BracketMappingRepository) Update(ctx context.Context, id int, m *models.BracketMapping) error {
	ctx, span := tracing.StartSpan(ctx, "BracketMappingRepository.Update")
	defer span.End()

	ub := bracketMappingStruct.UpdateWithTag("write", bracketMappingsTable, newBracketMappingRow(m))
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update bracket mapping", map[string]any{"id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update bracket mapping", map[string]any{"id": id})
	}
	if !ok {
		return NotFound("Bracket mapping with ID %d not found.", id)
	}

	m.ID = id
	return nil
}

func (r *BracketMappingRepository) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.StartSpan(ctx, "BracketMappingRepository.Delete")
	defer span.End()

	db := bracketMappingStruct.DeleteFrom(bracketMappingsTable)
	db.Where(db.Equal("id", id))
	query, args := db.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "delete bracket mapping", map[string]any{"id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "delete bracket mapping", map[string]any{"id": id})
	}
	if !ok {
		return NotFound("Bracket mapping with ID %d not found.", id)
	}
	return nil
}

// Upsert inserts m or, when the tag name already exists, overwrites its path,
// description and system flag.
func (r *BracketMappingRepository) Upsert(ctx context.Context, m *models.BracketMapping) error {
	ctx, span := tracing.StartSpan(ctx, "BracketMappingRepository.Upsert")
	defer span.End()

	ib := bracketMappingStruct.InsertIntoWithTag("write", bracketMappingsTable, newBracketMappingRow(m))
	ub := ib.OnConflict("tag_name")
	ub.Set(
		ub.Assign("object_path", database.Excluded("object_path")),
		ub.Assign("description", database.Excluded("description")),
		ub.Assign("system_tag", database.Excluded("system_tag")),
	)
	ib = ib.Returning("id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&m.ID); err != nil {
		return r.fail(ctx, err, "upsert bracket mapping", map[string]any{"tag_name": m.TagName})
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":       m.ID,
		"tag_name": m.TagName,
	}).Info("Upserted bracket mapping")
	return nil
}
