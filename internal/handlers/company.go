package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type CompanyStore interface {
	List(ctx context.Context) ([]models.Company, error)
	GetByID(ctx context.Context, id int) (*models.Company, error)
	Create(ctx context.Context, c *models.Company) error
	Update(ctx context.Context, id int, c *models.Company) error
}

// CompanyHandler handles /api/companies
type CompanyHandler struct {
	store  CompanyStore
	logger ectologger.Logger
}

func NewCompanyHandler(store CompanyStore, logger ectologger.Logger) *CompanyHandler {
	return &CompanyHandler{store: store, logger: logger}
}

func (h *CompanyHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
}

func (h *CompanyHandler) List(c echo.Context) error {
	defer span(c, "CompanyHandler.List")()

	companies, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return SuccessResponse(c, companies)
}

func (h *CompanyHandler) GetByID(c echo.Context) error {
	defer span(c, "CompanyHandler.GetByID")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	company, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, company)
}

func (h *CompanyHandler) Create(c echo.Context) error {
	defer span(c, "CompanyHandler.Create")()
	ctx := c.Request().Context()

	company, err := utils.BindRequest[models.Company](c)
	if err != nil {
		return err
	}

	if err := h.store.Create(ctx, &company); err != nil {
		return err
	}

	h.logger.WithContext(ctx).Infof("Created company: %d", company.CompanyID)
	return CreatedResponse(c, company)
}

func (h *CompanyHandler) Update(c echo.Context) error {
	defer span(c, "CompanyHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	company, err := utils.BindRequest[models.Company](c)
	if err != nil {
		return err
	}

	if err := h.store.Update(c.Request().Context(), id, &company); err != nil {
		return err
	}
	return SuccessResponse(c, company)
}
