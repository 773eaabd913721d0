package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/internal/services/valpdf"
	"github.com/rickylandino/val-builder-api/pkg/render"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type ValPdfService interface {
	Generate(ctx context.Context, valID int, opts render.Options) (*valpdf.Result, error)
}

// ValPdfHandler serves GET /api/val/:valId/pdf
type ValPdfHandler struct {
	service ValPdfService
	logger  ectologger.Logger
}

func NewValPdfHandler(service ValPdfService, logger ectologger.Logger) *ValPdfHandler {
	return &ValPdfHandler{service: service, logger: logger}
}

// Register expects the /api/val group shared with the detail routes.
func (h *ValPdfHandler) Register(g *echo.Group) {
	g.GET("/:valId/pdf", h.Generate)
}

func (h *ValPdfHandler) Generate(c echo.Context) error {
	defer span(c, "ValPdfHandler.Generate")()
	ctx := c.Request().Context()

	valID, err := utils.ParamInt(c, "valId")
	if err != nil {
		return err
	}

	opts := render.DefaultOptions()
	if opts.IncludeHeaders, err = utils.QueryBool(c, "includeHeaders", opts.IncludeHeaders); err != nil {
		return err
	}
	if opts.ShowWatermark, err = utils.QueryBool(c, "showWatermark", opts.ShowWatermark); err != nil {
		return err
	}

	result, err := h.service.Generate(ctx, valID, opts)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	return c.Blob(http.StatusOK, "application/pdf", result.PDF)
}
