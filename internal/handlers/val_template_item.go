package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type ValTemplateItemStore interface {
	List(ctx context.Context, groupID *int) ([]models.ValTemplateItem, error)
	GetByID(ctx context.Context, id int) (*models.ValTemplateItem, error)
	Create(ctx context.Context, item *models.ValTemplateItem) error
	Update(ctx context.Context, id int, item *models.ValTemplateItem) error
	UpdateDisplayOrder(ctx context.Context, groupID int, items []models.ItemOrder) error
}

// ValTemplateItemHandler handles /api/valtemplateitems
type ValTemplateItemHandler struct {
	store  ValTemplateItemStore
	logger ectologger.Logger
}

func NewValTemplateItemHandler(store ValTemplateItemStore, logger ectologger.Logger) *ValTemplateItemHandler {
	return &ValTemplateItemHandler{store: store, logger: logger}
}

func (h *ValTemplateItemHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/displayorder", h.UpdateDisplayOrder)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
}

func (h *ValTemplateItemHandler) List(c echo.Context) error {
	defer span(c, "ValTemplateItemHandler.List")()

	groupID, err := utils.QueryInt(c, "groupId")
	if err != nil {
		return err
	}

	items, err := h.store.List(c.Request().Context(), groupID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, items)
}

func (h *ValTemplateItemHandler) GetByID(c echo.Context) error {
	defer span(c, "ValTemplateItemHandler.GetByID")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	item, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, item)
}

func (h *ValTemplateItemHandler) Create(c echo.Context) error {
	defer span(c, "ValTemplateItemHandler.Create")()

	item, err := utils.BindRequest[models.ValTemplateItem](c)
	if err != nil {
		return err
	}

	if err := h.store.Create(c.Request().Context(), &item); err != nil {
		return err
	}
	return CreatedResponse(c, item)
}

func (h *ValTemplateItemHandler) Update(c echo.Context) error {
	defer span(c, "ValTemplateItemHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	item, err := utils.BindRequest[models.ValTemplateItem](c)
	if err != nil {
		return err
	}

	if err := h.store.Update(c.Request().Context(), id, &item); err != nil {
		return err
	}
	return SuccessResponse(c, item)
}

// UpdateDisplayOrder renumbers a group's items. Items outside the group are
// ignored.
func (h *ValTemplateItemHandler) UpdateDisplayOrder(c echo.Context) error {
	defer span(c, "ValTemplateItemHandler.UpdateDisplayOrder")()
	ctx := c.Request().Context()

	var body models.TemplateItemOrderUpdate
	if err := c.Bind(&body); err != nil || body.GroupID == nil || len(body.Items) == 0 {
		return BadRequest("Invalid payload.")
	}

	if err := h.store.UpdateDisplayOrder(ctx, *body.GroupID, body.Items); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"group_id": *body.GroupID,
		"items":    len(body.Items),
	}).Info("Updated template item display order")
	return NoContentResponse(c)
}
