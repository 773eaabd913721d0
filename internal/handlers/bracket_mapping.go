package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type BracketMappingService interface {
	List(ctx context.Context) ([]models.BracketMapping, error)
	Create(ctx context.Context, m *models.BracketMapping) error
	Update(ctx context.Context, id int, m *models.BracketMapping) error
	Delete(ctx context.Context, id int) error
}

// BracketMappingHandler handles /api/bracketmappings. System tags are
// read-only and look missing to Update and Delete.
type BracketMappingHandler struct {
	service BracketMappingService
	logger  ectologger.Logger
}

func NewBracketMappingHandler(service BracketMappingService, logger ectologger.Logger) *BracketMappingHandler {
	return &BracketMappingHandler{service: service, logger: logger}
}

func (h *BracketMappingHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *BracketMappingHandler) List(c echo.Context) error {
	defer span(c, "BracketMappingHandler.List")()

	mappings, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return SuccessResponse(c, mappings)
}

func (h *BracketMappingHandler) Create(c echo.Context) error {
	defer span(c, "BracketMappingHandler.Create")()

	mapping, err := utils.BindRequest[models.BracketMapping](c)
	if err != nil {
		return err
	}

	if err := h.service.Create(c.Request().Context(), &mapping); err != nil {
		return err
	}
	return CreatedResponse(c, mapping)
}

func (h *BracketMappingHandler) Update(c echo.Context) error {
	defer span(c, "BracketMappingHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	mapping, err := utils.BindRequest[models.BracketMapping](c)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, &mapping); err != nil {
		return err
	}
	return SuccessResponse(c, mapping)
}

func (h *BracketMappingHandler) Delete(c echo.Context) error {
	defer span(c, "BracketMappingHandler.Delete")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
