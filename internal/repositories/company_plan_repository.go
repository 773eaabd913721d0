package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const companyPlansTable = "company_plans"

type companyPlanRow struct {
	PlanID      int            `db:"plan_id" fieldtag:"pk"`
	CompanyID   sql.NullInt64  `db:"company_id" fieldtag:"write"`
	PlanType    sql.NullString `db:"plan_type" fieldtag:"write"`
	PlanName    sql.NullString `db:"plan_name" fieldtag:"write"`
	PlanYearEnd sql.NullString `db:"plan_year_end" fieldtag:"write"`
	Tech        sql.NullString `db:"tech" fieldtag:"write"`
}

var companyPlanStruct = database.NewStruct(new(companyPlanRow))

func newCompanyPlanRow(p *models.CompanyPlan) *companyPlanRow {
	return &companyPlanRow{
		PlanID:      p.PlanID,
		CompanyID:   toNullInt(p.CompanyID),
		PlanType:    toNullString(p.PlanType),
		PlanName:    toNullString(p.PlanName),
		PlanYearEnd: toNullString(p.PlanYearEnd),
		Tech:        toNullString(p.Tech),
	}
}

func (row companyPlanRow) toModel() models.CompanyPlan {
	return models.CompanyPlan{
		PlanID:      row.PlanID,
		CompanyID:   fromNullInt(row.CompanyID),
		PlanType:    fromNullString(row.PlanType),
		PlanName:    fromNullString(row.PlanName),
		PlanYearEnd: fromNullString(row.PlanYearEnd),
		Tech:        fromNullString(row.Tech),
	}
}

type CompanyPlanRepository struct {
	*Repository
}

func NewCompanyPlanRepository(db database.DB, logger ectologger.Logger) *CompanyPlanRepository {
	return &CompanyPlanRepository{Repository: NewRepository(db, logger)}
}

// List returns every plan, or only the company's plans when companyID is set.
func (r *CompanyPlanRepository) List(ctx context.Context, companyID *int) ([]models.CompanyPlan, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyPlanRepository.List")
	defer span.End()

	sb := companyPlanStruct.SelectFrom(companyPlansTable)
	if companyID != nil {
		sb.Where(sb.Equal("company_id", *companyID))
	}
	sb.OrderBy("plan_id")
	query, args := sb.Build()

	var rows []companyPlanRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list company plans", map[string]any{"company_id": companyID})
	}

	out := make([]models.CompanyPlan, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *CompanyPlanRepository) GetByID(ctx context.Context, id int) (*models.CompanyPlan, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyPlanRepository.GetByID")
	defer span.End()

	sb := companyPlanStruct.SelectFrom(companyPlansTable)
	sb.Where(sb.Equal("plan_id", id))
	query, args := sb.Build()

	var row companyPlanRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("CompanyPlan with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get company plan", map[string]any{"plan_id": id})
	}

	p := row.toModel()
	return &p, nil
}

func (r *CompanyPlanRepository) Create(ctx context.Context, p *models.CompanyPlan) error {
	ctx, span := tracing.StartSpan(ctx, "CompanyPlanRepository.Create")
	defer span.End()

	ib := companyPlanStruct.InsertIntoWithTag("write", companyPlansTable, newCompanyPlanRow(p)).Returning("plan_id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&p.PlanID); err != nil {
		return r.fail(ctx, err, "create company plan", nil)
	}
	return nil
}

func (r *CompanyPlanRepository) Update(ctx context.Context, id int, p *models.CompanyPlan) error {
	ctx, span := tracing.StartSpan(ctx, "CompanyPlanRepository.Update")
	defer span.End()

	ub := companyPlanStruct.UpdateWithTag("write", companyPlansTable, newCompanyPlanRow(p))
	ub.Where(ub.Equal("plan_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update company plan", map[string]any{"plan_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update company plan", map[string]any{"plan_id": id})
	}
	if !ok {
		return NotFound("CompanyPlan with ID %d not found.", id)
	}

	p.PlanID = id
	return nil
}
