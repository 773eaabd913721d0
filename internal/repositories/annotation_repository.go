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

const valAnnotationsTable = "val_annotations"

type annotationRow struct {
	AnnotationID      int            `db:"annotation_id" fieldtag:"pk"`
	Author            sql.NullString `db:"author" fieldtag:"write"`
	AuthorID          sql.NullString `db:"author_id" fieldtag:"write,edit"`
	AnnotationContent sql.NullString `db:"annotation_content" fieldtag:"write,edit"`
	AnnotationGroupID uuid.NullUUID  `db:"annotation_group_id" fieldtag:"write"`
	DateModified      sql.NullTime   `db:"date_modified" fieldtag:"write,edit"`
	ValID             sql.NullInt64  `db:"val_id" fieldtag:"write,edit"`
	GroupID           sql.NullInt64  `db:"group_id" fieldtag:"write"`
}

var annotationStruct = database.NewStruct(new(annotationRow))

func newAnnotationRow(a *models.ValAnnotation) *annotationRow {
	return &annotationRow{
		AnnotationID:      a.AnnotationID,
		Author:            toNullString(a.Author),
		AuthorID:          toNullString(a.AuthorID),
		AnnotationContent: toNullString(a.AnnotationContent),
		AnnotationGroupID: toNullUUID(a.AnnotationGroupID),
		DateModified:      toNullTime(a.DateModified),
		ValID:             toNullInt(a.ValID),
		GroupID:           toNullInt(a.GroupID),
	}
}

func (row annotationRow) toModel() models.ValAnnotation {
	return models.ValAnnotation{
		AnnotationID:      row.AnnotationID,
		Author:            fromNullString(row.Author),
		AuthorID:          fromNullString(row.AuthorID),
		AnnotationContent: fromNullString(row.AnnotationContent),
		AnnotationGroupID: fromNullUUID(row.AnnotationGroupID),
		DateModified:      fromNullTime(row.DateModified),
		ValID:             fromNullInt(row.ValID),
		GroupID:           fromNullInt(row.GroupID),
	}
}

type AnnotationRepository struct {
	*Repository
}

func NewAnnotationRepository(db database.DB, logger ectologger.Logger) *AnnotationRepository {
	return &AnnotationRepository{Repository: NewRepository(db, logger)}
}

func (r *AnnotationRepository) List(ctx context.Context) ([]models.ValAnnotation, error) {
	ctx, span := tracing.StartSpan(ctx, "AnnotationRepository.List")
	defer span.End()

	sb := annotationStruct.SelectFrom(valAnnotationsTable)
	sb.OrderBy("annotation_id")
	query, args := sb.Build()

	var rows []annotationRow
	if err := r.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.fail(ctx, err, "list annotations", nil)
	}

	out := make([]models.ValAnnotation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (r *AnnotationRepository) GetByID(ctx context.Context, id int) (*models.ValAnnotation, error) {
	ctx, span := tracing.StartSpan(ctx, "AnnotationRepository.GetByID")
	defer span.End()

	sb := annotationStruct.SelectFrom(valAnnotationsTable)
	sb.Where(sb.Equal("annotation_id", id))
	query, args := sb.Build()

	var row annotationRow
	err := r.q(ctx).GetContext(ctx, &row, query, args...)
	if isNoRows(err) {
		return nil, NotFound("Annotation with ID %d not found.", id)
	}
	if err != nil {
		return nil, r.fail(ctx, err, "get annotation", map[string]any{"annotation_id": id})
	}

	a := row.toModel()
	return &a, nil
}

func (r *AnnotationRepository) Create(ctx context.Context, a *models.ValAnnotation) error {
	ctx, span := tracing.StartSpan(ctx, "AnnotationRepository.Create")
	defer span.End()

	ib := annotationStruct.InsertIntoWithTag("write", valAnnotationsTable, newAnnotationRow(a)).Returning("annotation_id")
	query, args := ib.Build()

	if err := r.q(ctx).QueryRowxContext(ctx, query, args...).Scan(&a.AnnotationID); err != nil {
		return r.fail(ctx, err, "create annotation", map[string]any{"val_id": a.ValID})
	}
	return nil
}

// Update changes only the editable columns: VAL, content, author id and
// modification date.
func (r *AnnotationRepository) Update(ctx context.Context, id int, a *models.ValAnnotation) error {
	ctx, span := tracing.StartSpan(ctx, "AnnotationRepository.Update")
	defer span.End()

	ub := annotationStruct.UpdateWithTag("edit", valAnnotationsTable, newAnnotationRow(a))
	ub.Where(ub.Equal("annotation_id", id))
	query, args := ub.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "update annotation", map[string]any{"annotation_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "update annotation", map[string]any{"annotation_id": id})
	}
	if !ok {
		return NotFound("Annotation with ID %d not found.", id)
	}

	a.AnnotationID = id
	return nil
}

func (r *AnnotationRepository) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.StartSpan(ctx, "AnnotationRepository.Delete")
	defer span.End()

	db := annotationStruct.DeleteFrom(valAnnotationsTable)
	db.Where(db.Equal("annotation_id", id))
	query, args := db.Build()

	res, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return r.fail(ctx, err, "delete annotation", map[string]any{"annotation_id": id})
	}
	ok, err := affected(res)
	if err != nil {
		return r.fail(ctx, err, "delete annotation", map[string]any{"annotation_id": id})
	}
	if !ok {
		return NotFound("Annotation with ID %d not found.", id)
	}
	return nil
}
