package valheader

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/pkg/database"
	"github.com/rickylandino/val-builder-api/pkg/kafka"
	"github.com/rickylandino/val-builder-api/pkg/models"
)

type fakeTx struct {
	database.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) GetTx(ctx context.Context, _ *sql.TxOptions) (context.Context, database.Tx, error) {
	d.tx = &fakeTx{}
	return ctx, d.tx, nil
}

type fakeHeaders struct {
	nextID  int
	created []models.ValHeader
}

func (f *fakeHeaders) List(context.Context, repositories.ValHeaderFilter) ([]models.ValHeader, error) {
	return f.created, nil
}

func (f *fakeHeaders) GetByID(_ context.Context, id int) (*models.ValHeader, error) {
	for _, h := range f.created {
		if h.ValID == id {
			return &h, nil
		}
	}
	return nil, repositories.NotFound("VAL %d not found", id)
}

func (f *fakeHeaders) Create(_ context.Context, h *models.ValHeader) error {
	f.nextID++
	h.ValID = f.nextID
	f.created = append(f.created, *h)
	return nil
}

func (f *fakeHeaders) Update(context.Context, int, *models.ValHeader) error { return nil }

type fakeTemplates struct {
	items []models.ValTemplateItem
}

func (f fakeTemplates) ListDefaultOnVal(context.Context) ([]models.ValTemplateItem, error) {
	return f.items, nil
}

type fakeDetails struct {
	stored []models.ValDetail
	err    error
}

func (f *fakeDetails) BulkCreate(_ context.Context, details []models.ValDetail) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, details...)
	return nil
}

type recordingPublisher struct {
	events []kafka.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e kafka.Event) error {
	p.events = append(p.events, e)
	return nil
}

func item(group, order int, text string) models.ValTemplateItem {
	return models.ValTemplateItem{
		ItemID:       group*100 + order,
		GroupID:      group,
		ItemText:     models.Ptr(text),
		DisplayOrder: models.Ptr(order * 10),
		DefaultOnVal: models.Ptr(true),
		Layout:       models.Layout{Bold: models.Ptr(true), Indent: models.Ptr(order)},
	}
}

func silentLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestDetailsFromTemplate(t *testing.T) {
	t.Run("should renumber display order per group", func(t *testing.T) {
		details := DetailsFromTemplate(9, []models.ValTemplateItem{
			item(1, 1, "a"), item(1, 2, "b"), item(2, 5, "c"), item(3, 1, "d"), item(3, 7, "e"),
		})
		require.Len(t, details, 5)

		orders := make([]int, 0, len(details))
		for _, d := range details {
			orders = append(orders, *d.DisplayOrder)
			assert.Equal(t, 9, *d.ValID)
			assert.NotEqual(t, uuid.Nil, d.ValDetailsID)
		}
		assert.Equal(t, []int{1, 2, 1, 1, 2}, orders)
	})

	t.Run("should copy content and layout verbatim", func(t *testing.T) {
		details := DetailsFromTemplate(1, []models.ValTemplateItem{item(4, 3, "<p>text</p>")})
		require.Len(t, details, 1)
		assert.Equal(t, "<p>text</p>", *details[0].GroupContent)
		assert.Equal(t, 4, *details[0].GroupID)
		assert.True(t, *details[0].Bold)
		assert.Equal(t, 3, *details[0].Indent)
	})

	t.Run("should return nothing for no items", func(t *testing.T) {
		assert.Empty(t, DetailsFromTemplate(1, nil))
	})
}

func TestService_Create(t *testing.T) {
	t.Run("should create header and copy defaults in one transaction", func(t *testing.T) {
		db := &fakeDB{}
		headers := &fakeHeaders{nextID: 41}
		details := &fakeDetails{}
		events := &recordingPublisher{}
		svc := NewService(silentLogger(), db, headers, fakeTemplates{items: []models.ValTemplateItem{item(1, 1, "a"), item(2, 1, "b")}}, details, events)

		h := &models.ValHeader{PlanID: models.Ptr(3)}
		require.NoError(t, svc.Create(context.Background(), h))

		assert.Equal(t, 42, h.ValID)
		assert.Len(t, details.stored, 2)
		assert.True(t, db.tx.committed)
		assert.False(t, db.tx.rolledBack)

		require.Len(t, events.events, 1)
		assert.Equal(t, kafka.EventHeaderCreated, events.events[0].Type)
		assert.Equal(t, 42, events.events[0].ValID)
		assert.Equal(t, kafka.HeaderCreatedData{PlanID: models.Ptr(3), DetailsCopied: 2}, events.events[0].Data)
	})

	t.Run("should roll back when copying fails", func(t *testing.T) {
		db := &fakeDB{}
		events := &recordingPublisher{}
		svc := NewService(silentLogger(), db, &fakeHeaders{}, fakeTemplates{items: []models.ValTemplateItem{item(1, 1, "a")}},
			&fakeDetails{err: errors.New("boom")}, events)

		err := svc.Create(context.Background(), &models.ValHeader{})
		require.Error(t, err)
		assert.True(t, db.tx.rolledBack)
		assert.False(t, db.tx.committed)
		assert.Empty(t, events.events)
	})
}
