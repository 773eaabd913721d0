package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type ValHeaderService interface {
	List(ctx context.Context, filter repositories.ValHeaderFilter) ([]models.ValHeader, error)
	Get(ctx context.Context, id int) (*models.ValHeader, error)
	Create(ctx context.Context, h *models.ValHeader) error
	Update(ctx context.Context, id int, h *models.ValHeader) error
}

// ValHeaderHandler handles /api/valheader
type ValHeaderHandler struct {
	service ValHeaderService
	logger  ectologger.Logger
}

func NewValHeaderHandler(service ValHeaderService, logger ectologger.Logger) *ValHeaderHandler {
	return &ValHeaderHandler{service: service, logger: logger}
}

func (h *ValHeaderHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
}

// List filters by companyId or planId. companyId takes precedence.
func (h *ValHeaderHandler) List(c echo.Context) error {
	defer span(c, "ValHeaderHandler.List")()

	companyID, err := utils.QueryInt(c, "companyId")
	if err != nil {
		return err
	}
	planID, err := utils.QueryInt(c, "planId")
	if err != nil {
		return err
	}

	filter := repositories.ValHeaderFilter{CompanyID: companyID}
	if companyID == nil {
		filter.PlanID = planID
	}

	headers, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return SuccessResponse(c, headers)
}

func (h *ValHeaderHandler) GetByID(c echo.Context) error {
	defer span(c, "ValHeaderHandler.GetByID")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	header, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, header)
}

func (h *ValHeaderHandler) Create(c echo.Context) error {
	defer span(c, "ValHeaderHandler.Create")()

	header, err := utils.BindRequest[models.ValHeader](c)
	if err != nil {
		return err
	}

	if err := h.service.Create(c.Request().Context(), &header); err != nil {
		return err
	}
	return CreatedResponse(c, header)
}

func (h *ValHeaderHandler) Update(c echo.Context) error {
	defer span(c, "ValHeaderHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	header, err := utils.BindRequest[models.ValHeader](c)
	if err != nil {
		return err
	}

	if err := h.service.Update(c.Request().Context(), id, &header); err != nil {
		return err
	}
	return SuccessResponse(c, header)
}
