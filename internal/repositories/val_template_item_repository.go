package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const valTemplateItemsTable = "val_template_items"

type valTemplateItemRow struct {
	ItemID          int            `db:"item_id" fieldtag:"pk"`
	GroupID         int            `db:"group_id" fieldtag:"write"`
	ItemText        sql.NullString `db:"item_text" fieldtag:"write"`
	DisplayOrder    sql.NullInt64  `db:"display_order" fieldtag:"write"`
	BlankLineAfter  sql.NullInt64  `db:"blank_line_after" fieldtag:"write"`
	Bold            sql.NullBool   `db:"bold" fieldtag:"write"`
	Bullet          sql.NullBool   `db:"bullet" fieldtag:"write"`
	Center          sql.NullBool   `db:"center" fieldtag:"write"`
	DefaultOnVal    sql.NullBool   `db:"default_on_val" fieldtag:"write"`
	Indent          sql.NullInt64  `db:"indent" fieldtag:"write"`
	TightLineHeight sql.NullBool   `db:"tight_line_height" fieldtag:"write"`
}

var valTemplateItemStruct = database.NewStruct(new(valTemplateItemRow))

func newValTemplateItemRow(i *models.ValTemplateItem) *valTemplateItemRow {
	return &valTemplateItemRow{
		ItemID:          i.ItemID,
		GroupID:         i.GroupID,
		ItemText:        toNullString(i.ItemText),
		DisplayOrder:    toNullInt(i.DisplayOrder),
		BlankLineAfter:  toNullInt(i.BlankLineAfter),
		Bold:            toNullBool(i.Bold),
		Bullet:          toNullBool(i.Bullet),
		Center:          toNullBool(i.Center),
		DefaultOnVal:    toNullBool(i.DefaultOnVal),
		Indent:          toNullInt(i.Indent),
		TightLineHeight: toNullBool(i.TightLineHeight),
	}
}

func (row valTemplateItemRow) toModel() models.ValTemplateItem {
	return models.ValTemplateItem{
		ItemID:       row.ItemID,
		GroupID:      row.GroupID,
		ItemText:     fromNullString(row.ItemText),
		DisplayOrder: fromNullInt(row.DisplayOrder),
		DefaultOnVal: fromNullBool(row.DefaultOnVal),
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

type ValTemplateItemRepository struct {
	*Repository
}

func NewValTemplateItemRepository(db database.DB, logger ectologger.Logger) *ValTemplateItemRepository {
	return &ValTemplateItemRepository{Repository: NewRepository(db, logger)}
}

func (r *ValTemplateItemRepository) List(ctx context.Context, groupID *int) ([]models.ValTemplateItem, error) {
	ctx, span := tracing.StartSpan(ctx, "ValTemplateItemRepository.List")
	defer span.End()

	sb := valTemplateItemStruct.SelectFrom(valTemplateItemsTable)
	if groupID != nil {
		sb.Where(sb.Equal("group_id", *groupID))
	}
	sb.OrderBy("display_order", "item_id")
	query, args := sb.Build()

	return r.selectItems(ctx, query, args, "list val template items")
}

// ListDefaultOnVal returns the items copied onto every new VAL, ordered by
// group then display order.
func (r *ValTemplateItemRepository) ListDefaultOnVal(ctx context.Context) ([]models.ValTemplateItem, error) {
	ctx, span := tracing.StartSpan(ctx, "ValTemplateItemRepository.ListDefaultOnVal")
	defer span.End()

	sb := valTemplateItemStruct.SelectFrom(valTemplateItemsTable)
	sb.Where(sb.Equal("default_on_val", true))
	sb.OrderBy("group_id", "display_order", "item_id")
	query, args := sb.Build()

	return r.selectItems(ctx, query, args, "list default template items")
}

func (r *ValTemplateItemRepository) selectItems(ctx context.Context, query string, args []any, action string) ([]models.ValTemplateItem, error) {
	var rows []valTemplateItemRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, action, nil)
	}

	out := make([]models.ValTemplateItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *ValTemplateItemRepository) GetByID(ctx context.Context, id int) (*models.ValTemplateItem, error) {
	ctx, span := tracing.StartSpan(ctx, "ValTemplateItemRepository.GetByID")
	defer span.End()

	sb := valTemplateItemStruct.SelectFrom(valTemplateItemsTable)
	sb.Where(sb.Equal("item_id", id))
	query, args := sb.Build()

	var row valTemplateItemRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("ValTemplateItem with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get val template item", map[string]any{"item_id": id})
	}

	item := row.toModel()
	return &item, nil
}

func (r *ValTemplateItemRepository) Create(ctx context.Context, item *models.ValTemplateItem) error {
	ctx, span := tracing.StartSpan(ctx, "ValTemplateItemRepository.Create")
	defer span.End()

	ib := valTemplateItemStruct.InsertIntoWithTag("write", valTemplateItemsTable, newValTemplateItemRow(item)).Returning("item_id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&item.ItemID); err != nil {
		return r.fail(ctx, err, "create val template item", map[string]any{"group_id": item.GroupID})
	}
	return nil
}

func (r *ValTemplateItemRepository) Update(ctx context.Context, id int, item *models.ValTemplateItem) error {
	ctx, span := tracing.StartSpan(ctx, "ValTemplateItemRepository.Update")
	defer span.End()

	ub := valTemplateItemStruct.UpdateWithTag("write", valTemplateItemsTable, newValTemplateItemRow(item))
	ub.Where(ub.Equal("item_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update val template item", map[string]any{"item_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update val template item", map[string]any{"item_id": id})
	}
	if !ok {
		return NotFound("ValTemplateItem with ID %d not found.", id)
	}

	item.ItemID = id
	return nil
}

// UpdateDisplayOrder renumbers items within groupID. Items belonging to
// another group are left untouched. Runs in one transaction.
func (r *ValTemplateItemRepository) UpdateDisplayOrder(ctx context.Context, groupID int, items []models.ItemOrder) (err error) {
	ctx, span := tracing.StartSpan(ctx, "ValTemplateItemRepository.UpdateDisplayOrder")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return r.fail(ctx, err, "update template item order", map[string]any{"group_id": groupID})
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, item := range items {
		ub := database.NewUpdateBuilder()
		ub.Update(valTemplateItemsTable).
			Set(ub.Assign("display_order", item.DisplayOrder)).
			Where(ub.Equal("item_id", item.ItemID), ub.Equal("group_id", groupID))
		query, args := ub.Build()

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return r.fail(ctx, err, "update template item order", map[string]any{
				"group_id": groupID,
				"item_id":  item.ItemID,
			})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return r.fail(ctx, err, "update template item order", map[string]any{"group_id": groupID})
	}
	return nil
}
