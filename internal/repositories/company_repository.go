package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const companiesTable = "companies"

type companyRow struct {
	CompanyID   int            `db:"company_id" fieldtag:"pk"`
	Name        sql.NullString `db:"name" fieldtag:"write"`
	MailingName sql.NullString `db:"mailing_name" fieldtag:"write"`
	Street1     sql.NullString `db:"street1" fieldtag:"write"`
	Street2     sql.NullString `db:"street2" fieldtag:"write"`
	City        sql.NullString `db:"city" fieldtag:"write"`
	State       sql.NullString `db:"state" fieldtag:"write"`
	Zip         sql.NullString `db:"zip" fieldtag:"write"`
	Phone       sql.NullString `db:"phone" fieldtag:"write"`
	Fax         sql.NullString `db:"fax" fieldtag:"write"`
}

var companyStruct = database.NewStruct(new(companyRow))

func newCompanyRow(c *models.Company) *companyRow {
	return &companyRow{
		CompanyID:   c.CompanyID,
		Name:        toNullString(c.Name),
		MailingName: toNullString(c.MailingName),
		Street1:     toNullString(c.Street1),
		Street2:     toNullString(c.Street2),
		City:        toNullString(c.City),
		State:       toNullString(c.State),
		Zip:         toNullString(c.Zip),
		Phone:       toNullString(c.Phone),
		Fax:         toNullString(c.Fax),
	}
}

func (row companyRow) toModel() models.Company {
	return models.Company{
		CompanyID:   row.CompanyID,
		Name:        fromNullString(row.Name),
		MailingName: fromNullString(row.MailingName),
		Street1:     fromNullString(row.Street1),
		Street2:     fromNullString(row.Street2),
		City:        fromNullString(row.City),
		State:       fromNullString(row.State),
		Zip:         fromNullString(row.Zip),
		Phone:       fromNullString(row.Phone),
		Fax:         fromNullString(row.Fax),
	}
}

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	*Repository
}

func NewCompanyRepository(db database.DB, logger ectologger.Logger) *CompanyRepository {
	return &CompanyRepository{Repository: NewRepository(db, logger)}
}

func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyRepository.List")
	defer span.End()

	sb := companyStruct.SelectFrom(companiesTable)
	sb.OrderBy("company_id")
	query, args := sb.Build()

	var rows []companyRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list companies", nil)
	}

	out := make([]models.Company, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int) (*models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "CompanyRepository.GetByID")
	defer span.End()

	sb := companyStruct.SelectFrom(companiesTable)
	sb.Where(sb.Equal("company_id", id))
	query, args := sb.Build()

	var row companyRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("Company with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get company", map[string]any{"company_id": id})
	}

	c := row.toModel()
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	ctx, span := tracing.StartSpan(ctx, "CompanyRepository.Create")
	defer span.End()

	ib := companyStruct.InsertIntoWithTag("write", companiesTable, newCompanyRow(c)).Returning("company_id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&c.CompanyID); err != nil {
		return r.fail(ctx, err, "create company", nil)
	}

	r.logger.WithContext(ctx).WithField("company_id", c.CompanyID).Debugf("Created %s", companiesTable)
	return nil
}

func (r *CompanyRepository) Update(ctx context.Context, id int, c *models.Company) error {
	ctx, span := tracing.StartSpan(ctx, "CompanyRepository.Update")
	defer span.End()

	ub := companyStruct.UpdateWithTag("write", companiesTable, newCompanyRow(c))
	ub.Where(ub.Equal("company_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update company", map[string]any{"company_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update company", map[string]any{"company_id": id})
	}
	if !ok {
		return NotFound("Company with ID %d not found.", id)
	}

	c.CompanyID = id
	return nil
}
