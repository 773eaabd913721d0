package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type CompanyPlanStore interface {
	List(ctx context.Context, companyID *int) ([]models.CompanyPlan, error)
	GetByID(ctx context.Context, id int) (*models.CompanyPlan, error)
	Create(ctx context.Context, p *models.CompanyPlan) error
	Update(ctx context.Context, id int, p *models.CompanyPlan) error
}

// CompanyPlanHandler handles /api/companyplan
type CompanyPlanHandler struct {
	store  CompanyPlanStore
	logger ectologger.Logger
}

func NewCompanyPlanHandler(store CompanyPlanStore, logger ectologger.Logger) *CompanyPlanHandler {
	return &CompanyPlanHandler{store: store, logger: logger}
}

func (h *CompanyPlanHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/company/:companyId", h.ListByCompany)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
}

// List returns all plans, or one company's plans when companyId is given.
func (h *CompanyPlanHandler) List(c echo.Context) error {
	defer span(c, "CompanyPlanHandler.List")()

	companyID, err := utils.QueryInt(c, "companyId")
	if err != nil {
		return err
	}

	plans, err := h.store.List(c.Request().Context(), companyID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, plans)
}

func (h *CompanyPlanHandler) ListByCompany(c echo.Context) error {
	defer span(c, "CompanyPlanHandler.ListByCompany")()

	companyID, err := utils.ParamInt(c, "companyId")
	if err != nil {
		return err
	}

	plans, err := h.store.List(c.Request().Context(), &companyID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, plans)
}

func (h *CompanyPlanHandler) GetByID(c echo.Context) error {
	defer span(c, "CompanyPlanHandler.GetByID")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	plan, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, plan)
}

func (h *CompanyPlanHandler) Create(c echo.Context) error {
	defer span(c, "CompanyPlanHandler.Create")()
	ctx := c.Request().Context()

	plan, err := utils.BindRequest[models.CompanyPlan](c)
	if err != nil {
		return err
	}

	if err := h.store.Create(ctx, &plan); err != nil {
		return err
	}

	h.logger.WithContext(ctx).Infof("Created company plan: %d", plan.PlanID)
	return CreatedResponse(c, plan)
}

func (h *CompanyPlanHandler) Update(c echo.Context) error {
	defer span(c, "CompanyPlanHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	plan, err := utils.BindRequest[models.CompanyPlan](c)
	if err != nil {
		return err
	}

	if err := h.store.Update(c.Request().Context(), id, &plan); err != nil {
		return err
	}
	return SuccessResponse(c, plan)
}
