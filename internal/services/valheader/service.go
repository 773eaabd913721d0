package valheader

import (
	"context"
	"database/sql"

	"github.com/Gobusters/ectolinq"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/kafka"
	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

type HeaderRepository interface {
	List(ctx context.Context, filter repositories.ValHeaderFilter) ([]models.ValHeader, error)
	GetByID(ctx context.Context, id int) (*models.ValHeader, error)
	Create(ctx context.Context, h *models.ValHeader) error
	Update(ctx context.Context, id int, h *models.ValHeader) error
}

type TemplateRepository interface {
	ListDefaultOnVal(ctx context.Context) ([]models.ValTemplateItem, error)
}

type DetailRepository interface {
	BulkCreate(ctx context.Context, details []models.ValDetail) error
}

// TxBeginner opens or joins the transaction bound to ctx.
type TxBeginner interface {
	GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error)
}

type Service struct {
	logger    ectologger.Logger
	db        TxBeginner
	headers   HeaderRepository
	templates TemplateRepository
	details   DetailRepository
	events    kafka.Publisher
}

func NewService(logger ectologger.Logger, db TxBeginner, headers HeaderRepository, templates TemplateRepository, details DetailRepository, events kafka.Publisher) *Service {
	if events == nil {
		events = kafka.NopPublisher{}
	}
	return &Service{
		logger:    logger,
		db:        db,
		headers:   headers,
		templates: templates,
		details:   details,
		events:    events,
	}
}

func (s *Service) List(ctx context.Context, filter repositories.ValHeaderFilter) ([]models.ValHeader, error) {
	ctx, span := tracing.StartSpan(ctx, "valheader.List")
	defer span.End()

	return s.headers.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int) (*models.ValHeader, error) {
	ctx, span := tracing.StartSpan(ctx, "valheader.Get")
	defer span.End()

	return s.headers.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int, h *models.ValHeader) error {
	ctx, span := tracing.StartSpan(ctx, "valheader.Update")
	defer span.End()

	return s.headers.Update(ctx, id, h)
}

// Create stores a new header and seeds it with every default template item.
// Both writes commit together or not at all.
func (s *Service) Create(ctx context.Context, h *models.ValHeader) (err error) {
	ctx, span := tracing.StartSpan(ctx, "valheader.Create")
	defer span.End()

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tracing.RecordError(ctx, err)
			_ = tx.Rollback(ctx)
		}
	}()

	if err = s.headers.Create(ctx, h); err != nil {
		return err
	}

	items, err := s.templates.ListDefaultOnVal(ctx)
	if err != nil {
		return err
	}

	details := DetailsFromTemplate(h.ValID, items)
	if err = s.details.BulkCreate(ctx, details); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	metrics.RecordTemplateItemsCopied(len(details))
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"val_id":         h.ValID,
		"plan_id":        h.PlanID,
		"details_copied": len(details),
	}).Info("created val header")

	s.publish(ctx, kafka.Event{
		Type:  kafka.EventHeaderCreated,
		ValID: h.ValID,
		Data:  kafka.HeaderCreatedData{PlanID: h.PlanID, DetailsCopied: len(details)},
	})
	return nil
}

func (s *Service) publish(ctx context.Context, event kafka.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warnf("failed to publish %s", event.Type)
	}
}

// DetailsFromTemplate turns template items into details for valID. Items are
// expected in group then display order; display order restarts at 1 in each
// group.
func DetailsFromTemplate(valID int, items []models.ValTemplateItem) []models.ValDetail {
	next := map[int]int{}
	return ectolinq.Map(items, func(item models.ValTemplateItem) models.ValDetail {
		next[item.GroupID]++
		return models.ValDetail{
			ValDetailsID: uuid.New(),
			ValID:        models.Ptr(valID),
			GroupID:      models.Ptr(item.GroupID),
			GroupContent: item.ItemText,
			DisplayOrder: models.Ptr(next[item.GroupID]),
			Layout:       item.Layout,
		}
	})
}
