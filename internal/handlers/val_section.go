package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type ValSectionStore interface {
	List(ctx context.Context) ([]models.ValSection, error)
	ListByGroup(ctx context.Context, groupID int) ([]models.ValSection, error)
	GetFirstByGroup(ctx context.Context, groupID int) (*models.ValSection, error)
}

// ValSectionHandler handles /api/valsections
type ValSectionHandler struct {
	store  ValSectionStore
	logger ectologger.Logger
}

func NewValSectionHandler(store ValSectionStore, logger ectologger.Logger) *ValSectionHandler {
	return &ValSectionHandler{store: store, logger: logger}
}

func (h *ValSectionHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/group/:groupId", h.ListByGroup)
	g.GET("/:groupId", h.GetByGroup)
}

func (h *ValSectionHandler) List(c echo.Context) error {
	defer span(c, "ValSectionHandler.List")()

	sections, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return SuccessResponse(c, sections)
}

func (h *ValSectionHandler) GetByGroup(c echo.Context) error {
	defer span(c, "ValSectionHandler.GetByGroup")()

	groupID, err := utils.ParamInt(c, "groupId")
	if err != nil {
		return err
	}

	section, err := h.store.GetFirstByGroup(c.Request().Context(), groupID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, section)
}

func (h *ValSectionHandler) ListByGroup(c echo.Context) error {
	defer span(c, "ValSectionHandler.ListByGroup")()

	groupID, err := utils.ParamInt(c, "groupId")
	if err != nil {
		return err
	}

	sections, err := h.store.ListByGroup(c.Request().Context(), groupID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, sections)
}
