package bracket

import (
	"strconv"
	"strings"
	"time"

	"github.com/rickylandino/val-builder-api/pkg/models"
)

// Context carries the objects a custom tag can read from. Any of them may be nil.
type Context struct {
	Header  *models.ValHeader
	Plan    *models.CompanyPlan
	Company *models.Company
}

type accessor func(Context) string

const (
	SourceCompanyPlan = "companyPlan"
	SourceCompany     = "company"
	SourceValHeader   = "valHeader"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func date(p *time.Time) string {
	return formatDate(p)
}

func planField(get func(*models.CompanyPlan) string) accessor {
	return func(c Context) string {
		if c.Plan == nil {
			return ""
		}
		return get(c.Plan)
	}
}

func companyField(get func(*models.Company) string) accessor {
	return func(c Context) string {
		if c.Company == nil {
			return ""
		}
		return get(c.Company)
	}
}

func headerField(get func(*models.ValHeader) string) accessor {
	return func(c Context) string {
		if c.Header == nil {
			return ""
		}
		return get(c.Header)
	}
}

// accessors is keyed by source, then by lower-cased property name.
var accessors = map[string]map[string]accessor{
	SourceCompanyPlan: {
		"planid":      planField(func(p *models.CompanyPlan) string { return strconv.Itoa(p.PlanID) }),
		"companyid":   planField(func(p *models.CompanyPlan) string { return num(p.CompanyID) }),
		"plantype":    planField(func(p *models.CompanyPlan) string { return str(p.PlanType) }),
		"planname":    planField(func(p *models.CompanyPlan) string { return str(p.PlanName) }),
		"planyearend": planField(func(p *models.CompanyPlan) string { return str(p.PlanYearEnd) }),
		"tech":        planField(func(p *models.CompanyPlan) string { return str(p.Tech) }),
	},
	SourceCompany: {
		"companyid":   companyField(func(c *models.Company) string { return strconv.Itoa(c.CompanyID) }),
		"name":        companyField(func(c *models.Company) string { return str(c.Name) }),
		"mailingname": companyField(func(c *models.Company) string { return str(c.MailingName) }),
		"street1":     companyField(func(c *models.Company) string { return str(c.Street1) }),
		"street2":     companyField(func(c *models.Company) string { return str(c.Street2) }),
		"city":        companyField(func(c *models.Company) string { return str(c.City) }),
		"state":       companyField(func(c *models.Company) string { return str(c.State) }),
		"zip":         companyField(func(c *models.Company) string { return str(c.Zip) }),
		"phone":       companyField(func(c *models.Company) string { return str(c.Phone) }),
		"fax":         companyField(func(c *models.Company) string { return str(c.Fax) }),
	},
	SourceValHeader: {
		"valid":             headerField(func(h *models.ValHeader) string { return strconv.Itoa(h.ValID) }),
		"planid":            headerField(func(h *models.ValHeader) string { return num(h.PlanID) }),
		"valdescription":    headerField(func(h *models.ValHeader) string { return str(h.ValDescription) }),
		"valdate":           headerField(func(h *models.ValHeader) string { return date(h.ValDate) }),
		"planyearbegindate": headerField(func(h *models.ValHeader) string { return date(h.PlanYearBeginDate) }),
		"planyearenddate":   headerField(func(h *models.ValHeader) string { return date(h.PlanYearEndDate) }),
		"recipientname":     headerField(func(h *models.ValHeader) string { return str(h.RecipientName) }),
		"recipientaddress1": headerField(func(h *models.ValHeader) string { return str(h.RecipientAddress1) }),
		"recipientaddress2": headerField(func(h *models.ValHeader) string { return str(h.RecipientAddress2) }),
		"recipientcity":     headerField(func(h *models.ValHeader) string { return str(h.RecipientCity) }),
		"recipientstate":    headerField(func(h *models.ValHeader) string { return str(h.RecipientState) }),
		"recipientzip":      headerField(func(h *models.ValHeader) string { return str(h.RecipientZip) }),
		"finalizedate":      headerField(func(h *models.ValHeader) string { return date(h.FinalizeDate) }),
		"finalizedby":       headerField(func(h *models.ValHeader) string { return str(h.FinalizedBy) }),
		"valstatusid":       headerField(func(h *models.ValHeader) string { return num(h.ValStatusID) }),
		"valyear":           headerField(func(h *models.ValHeader) string { return num(h.ValYear) }),
		"valquarter":        headerField(func(h *models.ValHeader) string { return num(h.ValQuarter) }),
	},
}

// lookup resolves an object path like "companyPlan.Tech". The source prefix is
// matched exactly, the property case-insensitively. ok is false for malformed
// paths and unknown properties.
func lookup(objectPath string) (accessor, bool) {
	source, prop, found := strings.Cut(objectPath, ".")
	if !found {
		return nil, false
	}
	if i := strings.IndexByte(prop, '.'); i >= 0 {
		prop = prop[:i]
	}
	props, ok := accessors[source]
	if !ok {
		return nil, false
	}
	fn, ok := props[strings.ToLower(prop)]
	return fn, ok
}
