package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickylandino/val-builder-api/internal/repositories"
	"github.com/rickylandino/val-builder-api/internal/services/valpdf"
	"github.com/rickylandino/val-builder-api/pkg/middleware"
	"github.com/rickylandino/val-builder-api/pkg/models"
	"github.com/rickylandino/val-builder-api/pkg/render"
)

func silentLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(silentLogger())
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type fakeCompanies struct {
	companies map[int]models.Company
}

func (f *fakeCompanies) List(_ context.Context) ([]models.Company, error) {
	out := []models.Company{}
	for _, c := range f.companies {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id int) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "Company with ID %d not found.", id)
	}
	return &c, nil
}

func (f *fakeCompanies) Create(_ context.Context, c *models.Company) error {
	c.CompanyID = len(f.companies) + 1
	f.companies[c.CompanyID] = *c
	return nil
}

func (f *fakeCompanies) Update(_ context.Context, id int, c *models.Company) error {
	if _, ok := f.companies[id]; !ok {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "Company with ID %d not found.", id)
	}
	c.CompanyID = id
	f.companies[id] = *c
	return nil
}

func TestCompanyHandler(t *testing.T) {
	store := &fakeCompanies{companies: map[int]models.Company{1: {CompanyID: 1, Name: models.Ptr("Acme")}}}
	e := newServer()
	NewCompanyHandler(store, silentLogger()).Register(e.Group("/api/companies"))

	t.Run("should return a company by id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/companies/1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Acme", *decode[models.Company](t, rec).Name)
	})

	t.Run("should return 404 with message when missing", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/companies/9", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Company with ID 9 not found.", decode[middleware.ErrorResponse](t, rec).Message)
	})

	t.Run("should return 400 for a non numeric id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/companies/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should create with 201", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/companies", `{"name":"Globex","state":"NY"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotZero(t, decode[models.Company](t, rec).CompanyID)
	})

	t.Run("should reject fields over their length", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/companies", `{"state":"NEW"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

type fakeHeaders struct {
	filter repositories.ValHeaderFilter
}

func (f *fakeHeaders) List(_ context.Context, filter repositories.ValHeaderFilter) ([]models.ValHeader, error) {
	f.filter = filter
	return []models.ValHeader{}, nil
}

func (f *fakeHeaders) Get(_ context.Context, id int) (*models.ValHeader, error) {
	return &models.ValHeader{ValID: id}, nil
}

func (f *fakeHeaders) Create(_ context.Context, h *models.ValHeader) error {
	h.ValID = 10
	return nil
}

func (f *fakeHeaders) Update(_ context.Context, id int, h *models.ValHeader) error {
	h.ValID = id
	return nil
}

func TestValHeaderHandler(t *testing.T) {
	svc := &fakeHeaders{}
	e := newServer()
	NewValHeaderHandler(svc, silentLogger()).Register(e.Group("/api/valheader"))

	t.Run("should prefer companyId over planId", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valheader?companyId=3&planId=4", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.filter.CompanyID)
		assert.Equal(t, 3, *svc.filter.CompanyID)
		assert.Nil(t, svc.filter.PlanID)
	})

	t.Run("should filter by planId alone", func(t *testing.T) {
		do(e, http.MethodGet, "/api/valheader?planId=4", "")
		assert.Nil(t, svc.filter.CompanyID)
		require.NotNil(t, svc.filter.PlanID)
		assert.Equal(t, 4, *svc.filter.PlanID)
	})

	t.Run("should create with 201", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/valheader", `{"planId":4,"valDescription":"2025 Q1"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 10, decode[models.ValHeader](t, rec).ValID)
	})
}

type fakeDetails struct {
	result models.DetailSaveResult
	err    error
	got    []models.DetailChange
}

func (f *fakeDetails) List(_ context.Context, _ int, _ *int) ([]models.ValDetail, error) {
	return []models.ValDetail{}, nil
}

func (f *fakeDetails) Get(_ context.Context, id uuid.UUID) (*models.ValDetail, error) {
	return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "ValDetail with ID %s not found.", id)
}

func (f *fakeDetails) Create(_ context.Context, d *models.ValDetail) error {
	d.ValDetailsID = uuid.New()
	return nil
}

func (f *fakeDetails) Update(_ context.Context, _ uuid.UUID, _ *models.ValDetail) error {
	return nil
}

func (f *fakeDetails) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeDetails) SaveChanges(_ context.Context, _ int, changes []models.DetailChange) (models.DetailSaveResult, error) {
	f.got = changes
	return f.result, f.err
}

func TestValDetailHandler(t *testing.T) {
	svc := &fakeDetails{}
	e := newServer()
	NewValDetailHandler(svc, silentLogger()).Register(e.Group("/api/val"))

	t.Run("should reject a valId mismatch", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes", `{"valId":6,"changes":[]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		res := decode[models.DetailSaveResult](t, rec)
		assert.Equal(t, "Invalid valId or changes array", res.Message)
		assert.Equal(t, []string{"Request body is invalid or valId mismatch"}, res.Errors)
	})

	t.Run("should reject a missing changes array", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes", `{"valId":5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return 200 on success", func(t *testing.T) {
		svc.result = models.DetailSaveResult{Success: true, ItemsCreated: 1}
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes",
			`{"valId":5,"changes":[{"action":"create","detail":{"groupId":1,"groupContent":"x"}}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decode[models.DetailSaveResult](t, rec).ItemsCreated)
		require.Len(t, svc.got, 1)
		assert.Equal(t, "create", svc.got[0].Action)
	})

	t.Run("should return 400 when the batch has problems", func(t *testing.T) {
		svc.result = models.DetailSaveResult{Message: "Completed with 1 error(s).", Errors: []string{"Unknown action: move"}}
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes", `{"valId":5,"changes":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should return 500 when storage failed", func(t *testing.T) {
		svc.result = models.DetailSaveResult{Message: "An error occurred while saving changes.", Error: models.Ptr("boom")}
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes", `{"valId":5,"changes":[]}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "boom", *decode[models.DetailSaveResult](t, rec).Error)
	})

	t.Run("should pass through a busy lock as 409", func(t *testing.T) {
		svc.err = httperror.NewHTTPErrorf(http.StatusConflict, "Changes for VAL %d are already being saved.", 5)
		defer func() { svc.err = nil }()
		rec := do(e, http.MethodPost, "/api/val/5/details/save-changes", `{"valId":5,"changes":[]}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("should return 404 for an unknown detail", func(t *testing.T) {
		id := uuid.New()
		rec := do(e, http.MethodGet, "/api/val/5/details/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, fmt.Sprintf("ValDetail with ID %s not found.", id), decode[middleware.ErrorResponse](t, rec).Message)
	})

	t.Run("should return 204 on delete", func(t *testing.T) {
		rec := do(e, http.MethodDelete, "/api/val/5/details/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

type fakeTemplates struct {
	groupID int
	items   []models.ItemOrder
}

func (f *fakeTemplates) List(_ context.Context, _ *int) ([]models.ValTemplateItem, error) {
	return []models.ValTemplateItem{}, nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id int) (*models.ValTemplateItem, error) {
	return &models.ValTemplateItem{ItemID: id}, nil
}

func (f *fakeTemplates) Create(_ context.Context, _ *models.ValTemplateItem) error {
	return nil
}

func (f *fakeTemplates) Update(_ context.Context, _ int, _ *models.ValTemplateItem) error {
	return nil
}

func (f *fakeTemplates) UpdateDisplayOrder(_ context.Context, groupID int, items []models.ItemOrder) error {
	f.groupID, f.items = groupID, items
	return nil
}

func TestValTemplateItemHandler(t *testing.T) {
	store := &fakeTemplates{}
	e := newServer()
	NewValTemplateItemHandler(store, silentLogger()).Register(e.Group("/api/valtemplateitems"))

	t.Run("should reject an empty reorder", func(t *testing.T) {
		rec := do(e, http.MethodPut, "/api/valtemplateitems/displayorder", `{"groupId":2,"items":[]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid payload.", decode[middleware.ErrorResponse](t, rec).Message)
	})

	t.Run("should reject a reorder without group", func(t *testing.T) {
		rec := do(e, http.MethodPut, "/api/valtemplateitems/displayorder", `{"items":[{"itemId":1,"displayOrder":1}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reorder with 204", func(t *testing.T) {
		rec := do(e, http.MethodPut, "/api/valtemplateitems/displayorder",
			`{"groupId":2,"items":[{"itemId":7,"displayOrder":1},{"itemId":3,"displayOrder":2}]}`)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, 2, store.groupID)
		assert.Len(t, store.items, 2)
	})

	t.Run("should not route displayorder as an id", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valtemplateitems/12", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 12, decode[models.ValTemplateItem](t, rec).ItemID)
	})
}

type fakeSections struct{}

func (fakeSections) List(_ context.Context) ([]models.ValSection, error) {
	return []models.ValSection{{GroupID: 1}, {GroupID: 2}}, nil
}

func (fakeSections) ListByGroup(_ context.Context, groupID int) ([]models.ValSection, error) {
	return []models.ValSection{{GroupID: groupID}}, nil
}

func (fakeSections) GetFirstByGroup(_ context.Context, groupID int) (*models.ValSection, error) {
	return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "VAL section with Group ID %d not found.", groupID)
}

func TestValSectionHandler(t *testing.T) {
	e := newServer()
	NewValSectionHandler(fakeSections{}, silentLogger()).Register(e.Group("/api/valsections"))

	t.Run("should list sections", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valsections", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.ValSection](t, rec), 2)
	})

	t.Run("should list a group", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valsections/group/4", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 4, decode[[]models.ValSection](t, rec)[0].GroupID)
	})

	t.Run("should return 404 for an unknown group", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valsections/4", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "VAL section with Group ID 4 not found.", decode[middleware.ErrorResponse](t, rec).Message)
	})
}

type fakeMappings struct {
	deleted []int
}

func (f *fakeMappings) List(_ context.Context) ([]models.BracketMapping, error) {
	return []models.BracketMapping{{ID: 1, TagName: "PlanName", SystemTag: true}}, nil
}

func (f *fakeMappings) Create(_ context.Context, m *models.BracketMapping) error {
	m.ID = 2
	return nil
}

func (f *fakeMappings) Update(_ context.Context, id int, _ *models.BracketMapping) error {
	return httperror.NewHTTPErrorf(http.StatusNotFound, "Bracket mapping with ID %d not found.", id)
}

func (f *fakeMappings) Delete(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestBracketMappingHandler(t *testing.T) {
	svc := &fakeMappings{}
	e := newServer()
	NewBracketMappingHandler(svc, silentLogger()).Register(e.Group("/api/bracketmappings"))

	t.Run("should require a tag name", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/bracketmappings", `{"objectPath":"valHeader.ValYear"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should create with 201", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/bracketmappings", `{"tagName":"Year","objectPath":"valHeader.ValYear"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 2, decode[models.BracketMapping](t, rec).ID)
	})

	t.Run("should surface a protected tag as 404", func(t *testing.T) {
		rec := do(e, http.MethodPut, "/api/bracketmappings/1", `{"tagName":"PlanName"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should delete with 204", func(t *testing.T) {
		rec := do(e, http.MethodDelete, "/api/bracketmappings/2", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []int{2}, svc.deleted)
	})
}

type fakeAttachments struct {
	created *models.ValPdfAttachment
}

func (f *fakeAttachments) List(_ context.Context) ([]models.ValPdfAttachment, error) {
	return []models.ValPdfAttachment{}, nil
}

func (f *fakeAttachments) ListByVal(_ context.Context, valID int) ([]models.ValPdfAttachment, error) {
	return []models.ValPdfAttachment{{PDFID: 1, ValID: &valID}}, nil
}

func (f *fakeAttachments) GetByID(_ context.Context, id int) (*models.ValPdfAttachment, error) {
	return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "PDF attachment with ID %d not found.", id)
}

func (f *fakeAttachments) Create(_ context.Context, a *models.ValPdfAttachment) error {
	a.PDFID = 3
	f.created = a
	return nil
}

func (f *fakeAttachments) Update(_ context.Context, _ int, _ *models.ValPdfAttachment) error {
	return nil
}

func (f *fakeAttachments) Delete(_ context.Context, _ int) error {
	return nil
}

func TestAttachmentHandler(t *testing.T) {
	store := &fakeAttachments{}
	e := newServer()
	NewAttachmentHandler(store, silentLogger()).Register(e.Group("/api/valpdfattachments"))

	t.Run("should decode base64 contents on create", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/api/valpdfattachments", `{"valId":5,"pdfName":"a.pdf","pdfContents":"JVBERi0="}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, store.created)
		assert.Equal(t, []byte("%PDF-"), store.created.PDFContents)
	})

	t.Run("should list by val", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valpdfattachments/by-val/5", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, *decode[[]models.ValPdfAttachment](t, rec)[0].ValID)
	})

	t.Run("should return 404 for an unknown attachment", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/valpdfattachments/8", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type fakePdf struct {
	opts render.Options
	err  error
}

func (f *fakePdf) Generate(_ context.Context, valID int, opts render.Options) (*valpdf.Result, error) {
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &valpdf.Result{PDF: []byte("%PDF-1.4"), Filename: fmt.Sprintf("VAL-%d-20250101-120000.pdf", valID)}, nil
}

func TestValPdfHandler(t *testing.T) {
	svc := &fakePdf{}
	e := newServer()
	NewValPdfHandler(svc, silentLogger()).Register(e.Group("/api/val"))

	t.Run("should stream the pdf as an attachment", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/val/5/pdf", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename="VAL-5-20250101-120000.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.Equal(t, "%PDF-1.4", rec.Body.String())
	})

	t.Run("should default to no headers and a watermark", func(t *testing.T) {
		do(e, http.MethodGet, "/api/val/5/pdf", "")
		assert.Equal(t, render.Options{IncludeHeaders: false, ShowWatermark: true}, svc.opts)
	})

	t.Run("should honor query flags", func(t *testing.T) {
		do(e, http.MethodGet, "/api/val/5/pdf?includeHeaders=true&showWatermark=false", "")
		assert.Equal(t, render.Options{IncludeHeaders: true, ShowWatermark: false}, svc.opts)
	})

	t.Run("should report 404 for an unknown val", func(t *testing.T) {
		svc.err = httperror.NewHTTPErrorf(http.StatusNotFound, "VAL %d not found", 9)
		defer func() { svc.err = nil }()
		rec := do(e, http.MethodGet, "/api/val/9/pdf", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "VAL 9 not found", decode[middleware.ErrorResponse](t, rec).Message)
	})
}
