package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type AnnotationStore interface {
	List(ctx context.Context) ([]models.ValAnnotation, error)
	GetByID(ctx context.Context, id int) (*models.ValAnnotation, error)
	Create(ctx context.Context, a *models.ValAnnotation) error
	Update(ctx context.Context, id int, a *models.ValAnnotation) error
	Delete(ctx context.Context, id int) error
}

// AnnotationHandler handles /api/valannotations
type AnnotationHandler struct {
	store  AnnotationStore
	logger ectologger.Logger
}

func NewAnnotationHandler(store AnnotationStore, logger ectologger.Logger) *AnnotationHandler {
	return &AnnotationHandler{store: store, logger: logger}
}

func (h *AnnotationHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *AnnotationHandler) List(c echo.Context) error {
	defer span(c, "AnnotationHandler.List")()

	annotations, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return SuccessResponse(c, annotations)
}

func (h *AnnotationHandler) GetByID(c echo.Context) error {
	defer span(c, "AnnotationHandler.GetByID")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	annotation, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, annotation)
}

func (h *AnnotationHandler) Create(c echo.Context) error {
	defer span(c, "AnnotationHandler.Create")()

	annotation, err := utils.BindRequest[models.ValAnnotation](c)
	if err != nil {
		return err
	}

	if err := h.store.Create(c.Request().Context(), &annotation); err != nil {
		return err
	}
	return CreatedResponse(c, annotation)
}

// Update only touches the editable columns; author and grouping are fixed at
// creation.
func (h *AnnotationHandler) Update(c echo.Context) error {
	defer span(c, "AnnotationHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	annotation, err := utils.BindRequest[models.ValAnnotation](c)
	if err != nil {
		return err
	}

	if err := h.store.Update(c.Request().Context(), id, &annotation); err != nil {
		return err
	}
	return SuccessResponse(c, annotation)
}

func (h *AnnotationHandler) Delete(c echo.Context) error {
	defer span(c, "AnnotationHandler.Delete")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
