package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const valSectionsTable = "val_sections"

type valSectionRow struct {
	GroupID          int            `db:"group_id"`
	SectionText      sql.NullString `db:"section_text"`
	DisplayOrder     sql.NullInt64  `db:"display_order"`
	DefaultColWidth1 sql.NullInt64  `db:"default_col_width1"`
	DefaultColWidth2 sql.NullInt64  `db:"default_col_width2"`
	DefaultColWidth3 sql.NullInt64  `db:"default_col_width3"`
	DefaultColWidth4 sql.NullInt64  `db:"default_col_width4"`
	DefaultColType1  sql.NullString `db:"default_col_type1"`
	DefaultColType2  sql.NullString `db:"default_col_type2"`
	DefaultColType3  sql.NullString `db:"default_col_type3"`
	DefaultColType4  sql.NullString `db:"default_col_type4"`
	AutoIndent       sql.NullBool   `db:"auto_indent"`
}

var valSectionStruct = database.NewStruct(new(valSectionRow))

func (row valSectionRow) toModel() models.ValSection {
	return models.ValSection{
		GroupID:          row.GroupID,
		SectionText:      fromNullString(row.SectionText),
		DisplayOrder:     fromNullInt(row.DisplayOrder),
		DefaultColWidth1: fromNullInt(row.DefaultColWidth1),
		DefaultColWidth2: fromNullInt(row.DefaultColWidth2),
		DefaultColWidth3: fromNullInt(row.DefaultColWidth3),
		DefaultColWidth4: fromNullInt(row.DefaultColWidth4),
		DefaultColType1:  fromNullString(row.DefaultColType1),
		DefaultColType2:  fromNullString(row.DefaultColType2),
		DefaultColType3:  fromNullString(row.DefaultColType3),
		DefaultColType4:  fromNullString(row.DefaultColType4),
		AutoIndent:       fromNullBool(row.AutoIndent),
	}
}

// ValSectionRepository is read-only; sections are maintained out of band.
type ValSectionRepository struct {
	*Repository
}

func NewValSectionRepository(db database.DB, logger ectologger.Logger) *ValSectionRepository {
	return &ValSectionRepository{Repository: NewRepository(db, logger)}
}

func (r *ValSectionRepository) List(ctx context.Context) ([]models.ValSection, error) {
	ctx, span := tracing.StartSpan(ctx, "ValSectionRepository.List")
	defer span.End()

	return r.list(ctx, nil)
}

// ListByGroup returns every section row for a group ordered by display order.
func (r *ValSectionRepository) ListByGroup(ctx context.Context, groupID int) ([]models.ValSection, error) {
	ctx, span := tracing.StartSpan(ctx, "ValSectionRepository.ListByGroup")
	defer span.End()

	return r.list(ctx, &groupID)
}

// GetFirstByGroup returns the first section stored for a group.
func (r *ValSectionRepository) GetFirstByGroup(ctx context.Context, groupID int) (*models.ValSection, error) {
	ctx, span := tracing.StartSpan(ctx, "ValSectionRepository.GetFirstByGroup")
	defer span.End()

	sections, err := r.list(ctx, &groupID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, NotFound("VAL section with Group ID %d not found.", groupID)
	}
	return &sections[0], nil
}

func (r *ValSectionRepository) list(ctx context.Context, groupID *int) ([]models.ValSection, error) {
	sb := valSectionStruct.SelectFrom(valSectionsTable)
	if groupID != nil {
		sb.Where(sb.Equal("group_id", *groupID))
	}
	sb.OrderBy("display_order", "group_id")
	query, args := sb.Build()

	var rows []valSectionRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list val sections", map[string]any{"group_id": groupID})
	}

	out := make([]models.ValSection, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}
