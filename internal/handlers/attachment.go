package handlers

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/utils"
)

type AttachmentStore interface {
	List(ctx context.Context) ([]models.ValPdfAttachment, error)
	ListByVal(ctx context.Context, valID int) ([]models.ValPdfAttachment, error)
	GetByID(ctx context.Context, id int) (*models.ValPdfAttachment, error)
	Create(ctx context.Context, a *models.ValPdfAttachment) error
	Update(ctx context.Context, id int, a *models.ValPdfAttachment) error
	Delete(ctx context.Context, id int) error
}

// AttachmentHandler handles /api/valpdfattachments
type AttachmentHandler struct {
	store  AttachmentStore
	logger ectologger.Logger
}

func NewAttachmentHandler(store AttachmentStore, logger ectologger.Logger) *AttachmentHandler {
	return &AttachmentHandler{store: store, logger: logger}
}

func (h *AttachmentHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/by-val/:valId", h.ListByVal)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *AttachmentHandler) List(c echo.Context) error {
	defer span(c, "AttachmentHandler.List")()

	attachments, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return SuccessResponse(c, attachments)
}

func (h *AttachmentHandler) ListByVal(c echo.Context) error {
	defer span(c, "AttachmentHandler.ListByVal")()

	valID, err := utils.ParamInt(c, "valId")
	if err != nil {
		return err
	}

	attachments, err := h.store.ListByVal(c.Request().Context(), valID)
	if err != nil {
		return err
	}
	return SuccessResponse(c, attachments)
}

func (h *AttachmentHandler) GetByID(c echo.Context) error {
	defer span(c, "AttachmentHandler.GetByID")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	attachment, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return SuccessResponse(c, attachment)
}

func (h *AttachmentHandler) Create(c echo.Context) error {
	defer span(c, "AttachmentHandler.Create")()
	ctx := c.Request().Context()

	attachment, err := utils.BindRequest[models.ValPdfAttachment](c)
	if err != nil {
		return err
	}

	if err := h.store.Create(ctx, &attachment); err != nil {
		return err
	}

	h.logger.WithContext(ctx).WithFields(map[string]any{
		"pdf_id": attachment.PDFID,
		"bytes":  len(attachment.PDFContents),
	}).Info("Stored PDF attachment")
	return CreatedResponse(c, attachment)
}

func (h *AttachmentHandler) Update(c echo.Context) error {
	defer span(c, "AttachmentHandler.Update")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	attachment, err := utils.BindRequest[models.ValPdfAttachment](c)
	if err != nil {
		return err
	}

	if err := h.store.Update(c.Request().Context(), id, &attachment); err != nil {
		return err
	}
	return SuccessResponse(c, attachment)
}

func (h *AttachmentHandler) Delete(c echo.Context) error {
	defer span(c, "AttachmentHandler.Delete")()

	id, err := utils.ParamInt(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return NoContentResponse(c)
}
