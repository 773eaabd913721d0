package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const valDetailsTable = "val_details"

// Detail ids are generated by the application, so every column is written.
type valDetailRow struct {
	ValDetailsID    uuid.UUID      `db:"val_details_id" fieldtag:"write"`
	ValID           sql.NullInt64  `db:"val_id" fieldtag:"write"`
	GroupID         sql.NullInt64  `db:"group_id" fieldtag:"write"`
	GroupContent    sql.NullString `db:"group_content" fieldtag:"write"`
	DisplayOrder    sql.NullInt64  `db:"display_order" fieldtag:"write"`
	Bullet          sql.NullBool   `db:"bullet" fieldtag:"write"`
	Indent          sql.NullInt64  `db:"indent" fieldtag:"write"`
	Bold            sql.NullBool   `db:"bold" fieldtag:"write"`
	Center          sql.NullBool   `db:"center" fieldtag:"write"`
	BlankLineAfter  sql.NullInt64  `db:"blank_line_after" fieldtag:"write"`
	TightLineHeight sql.NullBool   `db:"tight_line_height" fieldtag:"write"`
}

var valDetailStruct = database.NewStruct(new(valDetailRow))

func newValDetailRow(d *models.ValDetail) *valDetailRow {
	return &valDetailRow{
		ValDetailsID:    d.ValDetailsID,
		ValID:           toNullInt(d.ValID),
		GroupID:         toNullInt(d.GroupID),
		GroupContent:    toNullString(d.GroupContent),
		DisplayOrder:    toNullInt(d.DisplayOrder),
		Bullet:          toNullBool(d.Bullet),
		Indent:          toNullInt(d.Indent),
		Bold:            toNullBool(d.Bold),
		Center:          toNullBool(d.Center),
		BlankLineAfter:  toNullInt(d.BlankLineAfter),
		TightLineHeight: toNullBool(d.TightLineHeight),
	}
}

func (row valDetailRow) toModel() models.ValDetail {
	return models.ValDetail{
		ValDetailsID: row.ValDetailsID,
		ValID:        fromNullInt(row.ValID),
		GroupID:      fromNullInt(row.GroupID),
		GroupContent: fromNullString(row.GroupContent),
		DisplayOrder: fromNullInt(row.DisplayOrder),
		Layout: models.Layout{
			Bullet:          fromNullBool(row.Bullet),
			Indent:          fromNullInt(row.Indent),
			Bold:            fromNullBool(row.Bold),
			Center:          fromNullBool(row.Center),
			BlankLineAfter:  fromNullInt(row.BlankLineAfter),
			TightLineHeight: fromNullBool(row.TightLineHeight),
		},
	}
}

type ValDetailRepository struct {
	*Repository
}

func NewValDetailRepository(db database.DB, logger ectologger.Logger) *ValDetailRepository {
	return &ValDetailRepository{Repository: NewRepository(db, logger)}
}

// ListByVal returns the VAL's details ordered by display order, optionally
// limited to one group.
func (r *ValDetailRepository) ListByVal(ctx context.Context, valID int, groupID *int) ([]models.ValDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "ValDetailRepository.ListByVal")
	defer span.End()

	sb := valDetailStruct.SelectFrom(valDetailsTable)
	sb.Where(sb.Equal("val_id", valID))
	if groupID != nil {
		sb.Where(sb.Equal("group_id", *groupID))
	}
	sb.OrderBy("display_order")
	query, args := sb.Build()

	var rows []valDetailRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list val details", map[string]any{"val_id": valID, "group_id": groupID})
	}

	out := make([]models.ValDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *ValDetailRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ValDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "ValDetailRepository.GetByID")
	defer span.End()

	sb := valDetailStruct.SelectFrom(valDetailsTable)
	sb.Where(sb.Equal("val_details_id", id))
	query, args := sb.Build()

	var row valDetailRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("ValDetail with ID %s not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get val detail", map[string]any{"val_details_id": id})
	}

	d := row.toModel()
	return &d, nil
}

// Create stores d, assigning a new id when d has none.
func (r *ValDetailRepository) Create(ctx context.Context, d *models.ValDetail) error {
	ctx, span := tracing.StartSpan(ctx, "ValDetailRepository.Create")
	defer span.End()

	if d.ValDetailsID == uuid.Nil {
		d.ValDetailsID = uuid.New()
	}

	ib := valDetailStruct.InsertIntoWithTag("write", valDetailsTable, newValDetailRow(d))
	query, args := ib.Build()

	if _, err := r.q(ctx).ExecContext(ctx, query, args...); err != nil {
		return r.fail(ctx, err, "create val detail", map[string]any{"val_details_id": d.ValDetailsID})
	}
	return nil
}

// BulkCreate stores details in a single statement. Missing ids are assigned.
func (r *ValDetailRepository) BulkCreate(ctx context.Context, details []models.ValDetail) error {
	if len(details) == 0 {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "ValDetailRepository.BulkCreate")
	defer span.End()

	rows := make([]any, 0, len(details))
	for i := range details {
		if details[i].ValDetailsID == uuid.Nil {
			details[i].ValDetailsID = uuid.New()
		}
		rows = append(rows, newValDetailRow(&details[i]))
	}

	ib := valDetailStruct.InsertIntoWithTag("write", valDetailsTable, rows...)
	query, args := ib.Build()

	if _, err := r.q(ctx).ExecContext(ctx, query, args...); err != nil {
		return r.fail(ctx, err, "create val details", map[string]any{"count": len(details)})
	}

	r.logger.WithContext(ctx).WithField("count", len(details)).Debugf("Created %s", valDetailsTable)
	return nil
}

func (r *ValDetailRepository) Update(ctx context.Context, id uuid.UUID, d *models.ValDetail) error {
	ctx, span := tracing.StartSpan(ctx, "ValDetailRepository.Update")
	defer span.End()

	d.ValDetailsID = id
	ub := valDetailStruct.UpdateWithTag("write", valDetailsTable, newValDetailRow(d))
	ub.Where(ub.Equal("val_details_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update val detail", map[string]any{"val_details_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update val detail", map[string]any{"val_details_id": id})
	}
	if !ok {
		return NotFound("ValDetail with ID %s not found.", id)
	}
	return nil
}

func (r *ValDetailRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "ValDetailRepository.Delete")
	defer span.End()

	db := valDetailStruct.DeleteFrom(valDetailsTable)
	db.Where(db.Equal("val_details_id", id))
	query, args := db.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "delete val detail", map[string]any{"val_details_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "delete val detail", map[string]any{"val_details_id": id})
	}
	if !ok {
		return NotFound("ValDetail with ID %s not found.", id)
	}
	return nil
}
