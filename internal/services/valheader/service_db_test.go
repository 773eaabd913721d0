package valheader

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/internal/testinfra"
	"github.com/rickylandino/val-builder-api/pkg/models"
)

func TestService_CreateWithPostgres(t *testing.T) {
	logger := silentLogger()
	db := testinfra.MigratedPostgres(t, logger)
	ctx := context.Background()

	plans := repositories.NewCompanyPlanRepository(db, logger)
	headers := repositories.NewValHeaderRepository(db, logger)
	templates := repositories.NewValTemplateItemRepository(db, logger)
	details := repositories.NewValDetailRepository(db, logger)

	plan := &models.CompanyPlan{PlanName: models.Ptr("Acme 401(k)")}
	require.NoError(t, plans.Create(ctx, plan))

	// Two groups, each with default flags true, false, true in display order.
	for _, group := range []int{1, 2} {
		for order, def := range []bool{true, false, true} {
			require.NoError(t, templates.Create(ctx, &models.ValTemplateItem{
				GroupID:      group,
				ItemText:     models.Ptr(itemText(group, order+1)),
				DisplayOrder: models.Ptr(order + 1),
				DefaultOnVal: models.Ptr(def),
			}))
		}
	}

	svc := NewService(logger, db, headers, templates, details, nil)

	t.Run("should copy only default items renumbered per group", func(t *testing.T) {
		h := &models.ValHeader{PlanID: &plan.PlanID, ValDescription: models.Ptr("2025 Q1")}
		require.NoError(t, svc.Create(ctx, h))
		require.NotZero(t, h.ValID)

		all, err := details.ListByVal(ctx, h.ValID, nil)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		for _, group := range []int{1, 2} {
			got, err := details.ListByVal(ctx, h.ValID, models.Ptr(group))
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, 1, *got[0].DisplayOrder)
			assert.Equal(t, itemText(group, 1), *got[0].GroupContent)
			assert.Equal(t, 2, *got[1].DisplayOrder)
			assert.Equal(t, itemText(group, 3), *got[1].GroupContent)
		}
	})

	t.Run("should leave the template untouched", func(t *testing.T) {
		items, err := templates.List(ctx, models.Ptr(1))
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func itemText(group, order int) string {
	return fmt.Sprintf("group %d item %d", group, order)
}
