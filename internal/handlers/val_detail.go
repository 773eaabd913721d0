package handlers

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type ValDetailService interface {
	List(ctx context.Context, valID int, groupID *int) ([]models.ValDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ValDetail, error)
	Create(ctx context.Context, d *models.ValDetail) error
	Update(ctx context.Context, id uuid.UUID, d *models.ValDetail) error
	Delete(ctx context.Context, id uuid.UUID) error
	SaveChanges(ctx context.Context, valID int, changes []models.DetailChange) (models.DetailSaveResult, error)
}

// ValDetailHandler handles /api/val/:valId/details
type ValDetailHandler struct {
	service ValDetailService
	logger  ectologger.Logger
}

func NewValDetailHandler(service ValDetailService, logger ectologger.Logger) *ValDetailHandler {
	return &ValDetailHandler{service: service, logger: logger}
}

// Register expects a group rooted at /api/val.
func (h *ValDetailHandler) Register(g *echo.Group) {
	g.GET("/:valId/details", h.List)
	g.POST("/:valId/details", h.Create)
	g.POST("/:valId/details/save-changes", h.SaveChanges)
	g.GET("/:valId/details/:id", h.GetByID)
	g.PUT("/:valId/details/:id", h.Update)
	g.DELETE("/:valId/details/:id", h.Delete)
}

func (h *ValDetailHandler) List(c echo.Context) error {
	defer span(c, "ValDetailHandler.List")()

	valID, err := utils.ParamInt(c, "valId")
	if err != nil {
		return err
	}
	groupID, err := utils.QueryInt(c, "groupId")
	if err != nil {
		return err
	}

	details, err := h.service.List(c.Request().Context(), valID, groupID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, details)
}

func (h *ValDetailHandler) GetByID(c echo.Context) error {
	defer span(c, "ValDetailHandler.GetByID")()

	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, detail)
}

func (h *ValDetailHandler) Create(c echo.Context) error {
	defer span(c, "ValDetailHandler.Create")()

	detail, err := utils.BindRequest[models.ValDetail](c)
	if err != nil {
		return err
	}

	if err := h.service.Create(c.Request().Context(), &detail); err != nil {
		return err
	}
	return CreatedResponse(c, detail)
}

func (h *ValDetailHandler) Update(c echo.Context) error {
	defer span(c, "ValDetailHandler.Update")()

	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := utils.BindRequest[models.ValDetail](c)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, &detail); err != nil {
		return err
	}
	return SuccessResponse(c, detail)
}

func (h *ValDetailHandler) Delete(c echo.Context) error {
	defer span(c, "ValDetailHandler.Delete")()

	id, err := utils.ParamUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return NoContentResponse(c)
}

// SaveChanges applies a change batch. Rejected batches answer 400 and
// storage failures 500, both with the batch result as the body.
func (h *ValDetailHandler) SaveChanges(c echo.Context) error {
	defer span(c, "ValDetailHandler.SaveChanges")()
	ctx := c.Request().Context()

	valID, err := utils.ParamInt(c, "valId")
	if err != nil {
		return err
	}

	invalid := models.DetailSaveResult{
		Message: "Invalid valId or changes array",
		Errors:  []string{"Request body is invalid or valId mismatch"},
	}

	var body models.DetailChangeSet
	if err := c.Bind(&body); err != nil || body.ValID == nil || *body.ValID != valID || body.Changes == nil {
		h.logger.WithContext(ctx).WithField("val_id", valID).Warn("rejected malformed detail change batch")
		return c.JSON(http.StatusBadRequest, invalid)
	}

	result, err := h.service.SaveChanges(ctx, valID, body.Changes)
	if err != nil {
		return err
	}

	switch {
	case result.Success:
		return SuccessResponse(c, result)
	case result.Error != nil:
		return c.JSON(http.StatusInternalServerError, result)
	default:
		return c.JSON(http.StatusBadRequest, result)
	}
}
