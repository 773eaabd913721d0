package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const valHeadersTable = "val_headers"

type valHeaderRow struct {
	ValID             int            `db:"val_id" fieldtag:"pk"`
	PlanID            sql.NullInt64  `db:"plan_id" fieldtag:"write"`
	ValDescription    sql.NullString `db:"val_description" fieldtag:"write"`
	ValDate           sql.NullTime   `db:"val_date" fieldtag:"write"`
	PlanYearBeginDate sql.NullTime   `db:"plan_year_begin_date" fieldtag:"write"`
	PlanYearEndDate   sql.NullTime   `db:"plan_year_end_date" fieldtag:"write"`
	RecipientName     sql.NullString `db:"recipient_name" fieldtag:"write"`
	RecipientAddress1 sql.NullString `db:"recipient_address1" fieldtag:"write"`
	RecipientAddress2 sql.NullString `db:"recipient_address2" fieldtag:"write"`
	RecipientCity     sql.NullString `db:"recipient_city" fieldtag:"write"`
	RecipientState    sql.NullString `db:"recipient_state" fieldtag:"write"`
	RecipientZip      sql.NullString `db:"recipient_zip" fieldtag:"write"`
	FinalizeDate      sql.NullTime   `db:"finalize_date" fieldtag:"write"`
	FinalizedBy       sql.NullString `db:"finalized_by" fieldtag:"write"`
	WordDocPath       sql.NullString `db:"word_doc_path" fieldtag:"write"`
	ValStatusID       sql.NullInt64  `db:"val_status_id" fieldtag:"write"`
	MarginLeftRight   sql.NullInt64  `db:"margin_left_right" fieldtag:"write"`
	MarginTopBottom   sql.NullInt64  `db:"margin_top_bottom" fieldtag:"write"`
	FontSize          sql.NullInt64  `db:"font_size" fieldtag:"write"`
	ValYear           sql.NullInt64  `db:"val_year" fieldtag:"write"`
	ValQuarter        sql.NullInt64  `db:"val_quarter" fieldtag:"write"`
}

var valHeaderStruct = database.NewStruct(new(valHeaderRow))

func newValHeaderRow(h *models.ValHeader) *valHeaderRow {
	return &valHeaderRow{
		ValID:             h.ValID,
		PlanID:            toNullInt(h.PlanID),
		ValDescription:    toNullString(h.ValDescription),
		ValDate:           toNullTime(h.ValDate),
		PlanYearBeginDate: toNullTime(h.PlanYearBeginDate),
		PlanYearEndDate:   toNullTime(h.PlanYearEndDate),
		RecipientName:     toNullString(h.RecipientName),
		RecipientAddress1: toNullString(h.RecipientAddress1),
		RecipientAddress2: toNullString(h.RecipientAddress2),
		RecipientCity:     toNullString(h.RecipientCity),
		RecipientState:    toNullString(h.RecipientState),
		RecipientZip:      toNullString(h.RecipientZip),
		FinalizeDate:      toNullTime(h.FinalizeDate),
		FinalizedBy:       toNullString(h.FinalizedBy),
		WordDocPath:       toNullString(h.WordDocPath),
		ValStatusID:       toNullInt(h.ValStatusID),
		MarginLeftRight:   toNullInt(h.MarginLeftRight),
		MarginTopBottom:   toNullInt(h.MarginTopBottom),
		FontSize:          toNullInt(h.FontSize),
		ValYear:           toNullInt(h.ValYear),
		ValQuarter:        toNullInt(h.ValQuarter),
	}
}

func (row valHeaderRow) toModel() models.ValHeader {
	return models.ValHeader{
		ValID:             row.ValID,
		PlanID:            fromNullInt(row.PlanID),
		ValDescription:    fromNullString(row.ValDescription),
		ValDate:           fromNullTime(row.ValDate),
		PlanYearBeginDate: fromNullTime(row.PlanYearBeginDate),
		PlanYearEndDate:   fromNullTime(row.PlanYearEndDate),
		RecipientName:     fromNullString(row.RecipientName),
		RecipientAddress1: fromNullString(row.RecipientAddress1),
		RecipientAddress2: fromNullString(row.RecipientAddress2),
		RecipientCity:     fromNullString(row.RecipientCity),
		RecipientState:    fromNullString(row.RecipientState),
		RecipientZip:      fromNullString(row.RecipientZip),
		FinalizeDate:      fromNullTime(row.FinalizeDate),
		FinalizedBy:       fromNullString(row.FinalizedBy),
		WordDocPath:       fromNullString(row.WordDocPath),
		ValStatusID:       fromNullInt(row.ValStatusID),
		MarginLeftRight:   fromNullInt(row.MarginLeftRight),
		MarginTopBottom:   fromNullInt(row.MarginTopBottom),
		FontSize:          fromNullInt(row.FontSize),
		ValYear:           fromNullInt(row.ValYear),
		ValQuarter:        fromNullInt(row.ValQuarter),
	}
}

// ValHeaderFilter narrows List. PlanID wins when both are set.
type ValHeaderFilter struct {
	CompanyID *int
	PlanID    *int
}

type ValHeaderRepository struct {
	*Repository
}

func NewValHeaderRepository(db database.DB, logger ectologger.Logger) *ValHeaderRepository {
	return &ValHeaderRepository{Repository: NewRepository(db, logger)}
}

func (r *ValHeaderRepository) List(ctx context.Context, filter ValHeaderFilter) ([]models.ValHeader, error) {
	ctx, span := tracing.StartSpan(ctx, "ValHeaderRepository.List")
	defer span.End()

	sb := valHeaderStruct.SelectFrom(valHeadersTable)
	switch {
	case filter.PlanID != nil:
		sb.Where(sb.Equal("plan_id", *filter.PlanID))
	case filter.CompanyID != nil:
		plans := database.NewSelectBuilder()
		plans.Select("plan_id").From(companyPlansTable).Where(plans.Equal("company_id", *filter.CompanyID))
		sb.Where(sb.In("plan_id", plans.SelectBuilder))
	}
	sb.OrderBy("val_id")
	query, args := sb.Build()

	var rows []valHeaderRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list val headers", map[string]any{
			"company_id": filter.CompanyID,
			"plan_id":    filter.PlanID,
		})
	}

	out := make([]models.ValHeader, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *ValHeaderRepository) GetByID(ctx context.Context, id int) (*models.ValHeader, error) {
	ctx, span := tracing.StartSpan(ctx, "ValHeaderRepository.GetByID")
	defer span.End()

	sb := valHeaderStruct.SelectFrom(valHeadersTable)
	sb.Where(sb.Equal("val_id", id))
	query, args := sb.Build()

	var row valHeaderRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("ValHeader with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get val header", map[string]any{"val_id": id})
	}

	h := row.toModel()
	return &h, nil
}

func (r *ValHeaderRepository) Create(ctx context.Context, h *models.ValHeader) error {
	ctx, span := tracing.StartSpan(ctx, "ValHeaderRepository.Create")
	defer span.End()

	ib := valHeaderStruct.InsertIntoWithTag("write", valHeadersTable, newValHeaderRow(h)).Returning("val_id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&h.ValID); err != nil {
		return r.fail(ctx, err, "create val header", nil)
	}

	r.logger.WithContext(ctx).WithField("val_id", h.ValID).Debugf("Created %s", valHeadersTable)
	return nil
}

func (r *ValHeaderRepository) Update(ctx context.Context, id int, h *models.ValHeader) error {
	ctx, span := tracing.StartSpan(ctx, "ValHeaderRepository.Update")
	defer span.End()

	ub := valHeaderStruct.UpdateWithTag("write", valHeadersTable, newValHeaderRow(h))
	ub.Where(ub.Equal("val_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update val header", map[string]any{"val_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update val header", map[string]any{"val_id": id})
	}
	if !ok {
		return NotFound("ValHeader with ID %d not found.", id)
	}

	h.ValID = id
	return nil
}
