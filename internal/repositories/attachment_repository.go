package repositories

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectologger"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

const valPdfAttachmentsTable = "val_pdf_attachments"

type attachmentRow struct {
	PDFID        int            `db:"pdf_id" fieldtag:"pk"`
	ValID        sql.NullInt64  `db:"val_id" fieldtag:"write"`
	PDFName      sql.NullString `db:"pdf_name" fieldtag:"write"`
	DisplayOrder sql.NullInt64  `db:"display_order" fieldtag:"write"`
	PDFContents  []byte         `db:"pdf_contents" fieldtag:"write"`
}

var attachmentStruct = database.NewStruct(new(attachmentRow))

func newAttachmentRow(a *models.ValPdfAttachment) *attachmentRow {
	return &attachmentRow{
		PDFID:        a.PDFID,
		ValID:        toNullInt(a.ValID),
		PDFName:      toNullString(a.PDFName),
		DisplayOrder: toNullInt(a.DisplayOrder),
		PDFContents:  a.PDFContents,
	}
}

func (row attachmentRow) toModel() models.ValPdfAttachment {
	return models.ValPdfAttachment{
		PDFID:        row.PDFID,
		ValID:        fromNullInt(row.ValID),
		PDFName:      fromNullString(row.PDFName),
		DisplayOrder: fromNullInt(row.DisplayOrder),
		PDFContents:  row.PDFContents,
	}
}

type AttachmentRepository struct {
	*Repository
}

func NewAttachmentRepository(db database.DB, logger ectologger.Logger) *AttachmentRepository {
	return &AttachmentRepository{Repository: NewRepository(db, logger)}
}

// List returns every attachment ordered by VAL then display order.
func (r *AttachmentRepository) List(ctx context.Context) ([]models.ValPdfAttachment, error) {
	ctx, span := tracing.StartSpan(ctx, "AttachmentRepository.List")
	defer span.End()

	sb := attachmentStruct.SelectFrom(valPdfAttachmentsTable)
	sb.OrderBy("val_id", "display_order", "pdf_id")
	query, args := sb.Build()

	return r.selectAttachments(ctx, query, args, nil)
}

// ListByVal returns a VAL's attachments in merge order.
func (r *AttachmentRepository) ListByVal(ctx context.Context, valID int) ([]models.ValPdfAttachment, error) {
	ctx, span := tracing.StartSpan(ctx, "AttachmentRepository.ListByVal")
	defer span.End()

	sb := attachmentStruct.SelectFrom(valPdfAttachmentsTable)
	sb.Where(sb.Equal("val_id", valID))
	sb.OrderBy("display_order", "pdf_id")
	query, args := sb.Build()

	return r.selectAttachments(ctx, query, args, &valID)
}

func (r *AttachmentRepository) selectAttachments(ctx context.Context, query string, args []any, valID *int) ([]models.ValPdfAttachment, error) {
	var rows []attachmentRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list pdf attachments", map[string]any{"val_id": valID})
	}

	out := make([]models.ValPdfAttachment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id int) (*models.ValPdfAttachment, error) {
	ctx, span := tracing.StartSpan(ctx, "AttachmentRepository.GetByID")
	defer span.End()

	sb := attachmentStruct.SelectFrom(valPdfAttachmentsTable)
	sb.Where(sb.Equal("pdf_id", id))
	query, args := sb.Build()

	var row attachmentRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("PDF attachment with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get pdf attachment", map[string]any{"pdf_id": id})
	}

	a := row.toModel()
	return &a, nil
}

func (r *AttachmentRepository) Create(ctx context.Context, a *models.ValPdfAttachment) error {
	ctx, span := tracing.StartSpan(ctx, "AttachmentRepository.Create")
	defer span.End()

	ib := attachmentStruct.InsertIntoWithTag("write", valPdfAttachmentsTable, newAttachmentRow(a)).Returning("pdf_id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&a.PDFID); err != nil {
		return r.fail(ctx, err, "create pdf attachment", map[string]any{"val_id": a.ValID})
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"pdf_id": a.PDFID,
		"bytes":  len(a.PDFContents),
	}).Debugf("Created %s", valPdfAttachmentsTable)
	return nil
}

func (r *AttachmentRepository) Update(ctx context.Context, id int, a *models.ValPdfAttachment) error {
	ctx, span := tracing.StartSpan(ctx, "AttachmentRepository.Update")
	defer span.End()

	ub := attachmentStruct.UpdateWithTag("write", valPdfAttachmentsTable, newAttachmentRow(a))
	ub.Where(ub.Equal("pdf_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update pdf attachment", map[string]any{"pdf_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update pdf attachment", map[string]any{"pdf_id": id})
	}
	if !ok {
		return NotFound("PDF attachment with ID %d not found.", id)
	}

	a.PDFID = id
	return nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.StartSpan(ctx, "AttachmentRepository.Delete")
	defer span.End()

	db := attachmentStruct.DeleteFrom(valPdfAttachmentsTable)
	db.Where(db.Equal("pdf_id", id))
	query, args := db.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "delete pdf attachment", map[string]any{"pdf_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "delete pdf attachment", map[string]any{"pdf_id": id})
	}
	if !ok {
		return NotFound("PDF attachment with ID %d not found.", id)
	}
	return nil
}
