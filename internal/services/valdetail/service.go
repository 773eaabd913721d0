package valdetail

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/kafka"
	"github.com/rickylandino/val-builder-api/pkg/metrics"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/redis"
	"github.com/rickylandino/val-builder-api/pkg/tracing"
)

type DetailRepository interface {
	ListByVal(ctx context.Context, valID int, groupID *int) ([]models.ValDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ValDetail, error)
	Create(ctx context.Context, d *models.ValDetail) error
	Update(ctx context.Context, id uuid.UUID, d *models.ValDetail) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TxBeginner interface {
	GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error)
}

// Locker serializes batches for the same VAL across instances.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type Service struct {
	logger  ectologger.Logger
	db      TxBeginner
	details DetailRepository
	locker  Locker
	events  kafka.Publisher
}

// NewService builds the detail service. locker may be nil, in which case
// batches are not serialized.
func NewService(logger ectologger.Logger, db TxBeginner, details DetailRepository, locker Locker, events kafka.Publisher) *Service {
	if events == nil {
		events = kafka.NopPublisher{}
	}
	return &Service{
		logger:  logger,
		db:      db,
		details: details,
		locker:  locker,
		events:  events,
	}
}

func (s *Service) List(ctx context.Context, valID int, groupID *int) ([]models.ValDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "valdetail.List")
	defer span.End()

	return s.details.ListByVal(ctx, valID, groupID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.ValDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "valdetail.Get")
	defer span.End()

	return s.details.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, d *models.ValDetail) error {
	ctx, span := tracing.StartSpan(ctx, "valdetail.Create")
	defer span.End()

	return s.details.Create(ctx, d)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, d *models.ValDetail) error {
	ctx, span := tracing.StartSpan(ctx, "valdetail.Update")
	defer span.End()

	return s.details.Update(ctx, id, d)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracing.StartSpan(ctx, "valdetail.Delete")
	defer span.End()

	return s.details.Delete(ctx, id)
}

// SaveChanges applies a batch of creates, updates and deletes atomically.
// Problems with individual changes are collected and roll the whole batch
// back; the returned result describes the outcome. The error return is
// reserved for failing to take the VAL's lock.
func (s *Service) SaveChanges(ctx context.Context, valID int, changes []models.DetailChange) (models.DetailSaveResult, error) {
	ctx, span := tracing.StartSpan(ctx, "valdetail.SaveChanges")
	defer span.End()

	var result models.DetailSaveResult
	run := func(ctx context.Context) error {
		result = s.apply(ctx, changes)
		return nil
	}

	var err error
	if s.locker != nil {
		err = s.locker.WithLock(ctx, "val-details:"+strconv.Itoa(valID), run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		metrics.RecordDetailBatch("lock_error")
		tracing.RecordError(ctx, err)
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return result, httperror.NewHTTPErrorf(http.StatusConflict, "Changes for VAL %d are already being saved.", valID)
		}
		return result, httperror.WrapError(http.StatusInternalServerError, err)
	}

	entry := s.logger.WithContext(ctx).WithFields(map[string]any{
		"val_id":  valID,
		"created": result.ItemsCreated,
		"updated": result.ItemsUpdated,
		"deleted": result.ItemsDeleted,
	})

	switch {
	case result.Success:
		metrics.RecordDetailBatch("success")
		entry.Info("saved val detail changes")
		s.publish(ctx, kafka.Event{
			Type:  kafka.EventDetailsSaved,
			ValID: valID,
			Data: kafka.DetailsSavedData{
				Created: result.ItemsCreated,
				Updated: result.ItemsUpdated,
				Deleted: result.ItemsDeleted,
			},
		})
	case result.Error != nil:
		metrics.RecordDetailBatch("error")
		entry.WithField("error", *result.Error).Error("failed to save val detail changes")
	default:
		metrics.RecordDetailBatch("rejected")
		entry.WithField("errors", result.Errors).Warn("rejected val detail changes")
	}

	return result, nil
}

func (s *Service) apply(ctx context.Context, changes []models.DetailChange) models.DetailSaveResult {
	result := models.DetailSaveResult{}
	fail := func(err error) models.DetailSaveResult {
		result.Success = false
		result.Error = models.Ptr(err.Error())
		result.Message = "An error occurred while saving changes."
		return result
	}

	ctx, tx, err := s.db.GetTx(ctx, nil)
	if err != nil {
		return fail(err)
	}

	var problems []string
	for _, change := range changes {
		if change.Detail == nil {
			problems = append(problems, fmt.Sprintf("Detail object is null for action: %s", change.Action))
			continue
		}
		d := change.Detail

		switch models.DetailAction(strings.ToLower(change.Action)) {
		case models.DetailActionCreate:
			err = s.details.Create(ctx, d)
			if err == nil {
				result.ItemsCreated++
			}
		case models.DetailActionUpdate:
			err = s.details.Update(ctx, d.ValDetailsID, d)
			if isNotFound(err) {
				problems = append(problems, fmt.Sprintf("ValDetail with ID %s not found for update.", d.ValDetailsID))
				err = nil
			} else if err == nil {
				result.ItemsUpdated++
			}
		case models.DetailActionDelete:
			err = s.details.Delete(ctx, d.ValDetailsID)
			if isNotFound(err) {
				problems = append(problems, fmt.Sprintf("ValDetail with ID %s not found for delete.", d.ValDetailsID))
				err = nil
			} else if err == nil {
				result.ItemsDeleted++
			}
		default:
			problems = append(problems, fmt.Sprintf("Unknown action: %s", change.Action))
		}

		if err != nil {
			_ = tx.Rollback(ctx)
			return fail(err)
		}
	}

	if len(problems) > 0 {
		_ = tx.Rollback(ctx)
		result.Success = false
		result.Errors = problems
		result.Message = fmt.Sprintf("Completed with %d error(s).", len(problems))
		return result
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fail(err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Successfully processed %d creates, %d updates, and %d deletes.",
		result.ItemsCreated, result.ItemsUpdated, result.ItemsDeleted)
	return result
}

func (s *Service) publish(ctx context.Context, event kafka.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warnf("failed to publish %s", event.Type)
	}
}

func isNotFound(err error) bool {
	return err != nil && httperror.IsHTTPError(err) && httperror.GetStatusCode(err) == http.StatusNotFound
}
