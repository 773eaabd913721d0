package bracket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickylandino/val-builder-api/pkg/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func systemMappings() []models.BracketMapping {
	return []models.BracketMapping{
		{TagName: "PYE", SystemTag: true},
		{TagName: "PYE+3", SystemTag: true},
		{TagName: "PYE+12", SystemTag: true},
		{TagName: "PYE+x", SystemTag: true},
		{TagName: "PriorYearPYE", SystemTag: true},
		{TagName: "NextReview", SystemTag: true},
		{TagName: "Tech", ObjectPath: models.Ptr("companyPlan.Tech")},
		{TagName: "Client", ObjectPath: models.Ptr("company.NAME")},
		{TagName: "Recipient", ObjectPath: models.Ptr("valHeader.recipientName")},
		{TagName: "Broken", ObjectPath: models.Ptr("companyPlan")},
		{TagName: "Elsewhere", ObjectPath: models.Ptr("sponsor.Name")},
	}
}

func TestSubstitute_SystemTags(t *testing.T) {
	header := &models.ValHeader{
		PlanYearEndDate:   day(2024, time.December, 31),
		PlanYearBeginDate: day(2024, time.January, 1),
	}
	e, _ := NewEngine(systemMappings())
	c := Context{Header: header}

	t.Run("should format PYE as MM/dd/yyyy", func(t *testing.T) {
		assert.Equal(t, "Ends [[PYE: 12/31/2024]]", e.Substitute("Ends [[PYE]]", c))
	})

	t.Run("should match tag names case-insensitively and trim inner whitespace", func(t *testing.T) {
		assert.Equal(t, "[[PYE: 12/31/2024]]", e.Substitute("[[ pye ]]", c))
	})

	t.Run("should add months and clamp to the end of the month", func(t *testing.T) {
		assert.Contains(t, e.Substitute("[[PYE+3]]", c), "03/31/2025")
		assert.Equal(t, "[[PYE+12: 12/31/2025]]", e.Substitute("[[PYE+12]]", c))
	})

	t.Run("should leave an empty value when the month offset is not a number", func(t *testing.T) {
		assert.Equal(t, "[[PYE+x: ]]", e.Substitute("[[PYE+x]]", c))
	})

	t.Run("should resolve PriorYearPYE from the plan-year begin date", func(t *testing.T) {
		assert.Contains(t, e.Substitute("[[PriorYearPYE]]", c), "12/31/2023")
	})

	t.Run("should render empty values when the header has no dates", func(t *testing.T) {
		empty := Context{Header: &models.ValHeader{}}
		assert.Equal(t, "[[PYE: ]]", e.Substitute("[[PYE]]", empty))
		assert.Equal(t, "[[PYE+3: ]]", e.Substitute("[[PYE+3]]", empty))
		assert.Equal(t, "[[PriorYearPYE: ]]", e.Substitute("[[PriorYearPYE]]", empty))
	})

	t.Run("should leave an unhandled system tag without a value", func(t *testing.T) {
		assert.Equal(t, "[[NextReview]]", e.Substitute("[[NextReview]]", c))
	})
}

func TestSubstitute_CustomTags(t *testing.T) {
	e, problems := NewEngine(systemMappings())

	t.Run("should report paths that can never resolve", func(t *testing.T) {
		require.Len(t, problems, 2)
		assert.Equal(t, "Broken", problems[0].TagName)
		assert.Equal(t, "Elsewhere", problems[1].TagName)
	})

	c := Context{
		Header:  &models.ValHeader{RecipientName: models.Ptr("Acme Trustees")},
		Plan:    &models.CompanyPlan{Tech: models.Ptr("ABC")},
		Company: &models.Company{Name: models.Ptr("Acme Corp")},
	}

	t.Run("should resolve each source", func(t *testing.T) {
		got := e.Substitute("[[Tech]] / [[Client]] / [[Recipient]]", c)
		assert.Equal(t, "[[Tech: ABC]] / [[Client: Acme Corp]] / [[Recipient: Acme Trustees]]", got)
	})

	t.Run("should resolve to empty when the source object is absent", func(t *testing.T) {
		assert.Equal(t, "[[Tech: ]]", e.Substitute("[[Tech]]", Context{}))
	})

	t.Run("should resolve malformed paths to empty", func(t *testing.T) {
		assert.Equal(t, "[[Broken: ]] [[Elsewhere: ]]", e.Substitute("[[Broken]] [[Elsewhere]]", c))
	})
}

func TestSubstitute_UnmappedTags(t *testing.T) {
	e, _ := NewEngine(systemMappings())

	t.Run("should pass unmapped tags through unchanged", func(t *testing.T) {
		assert.Contains(t, e.Substitute("Unknown [[NotMapped]]", Context{}), "[[NotMapped]]")
	})

	t.Run("should be idempotent on unmapped tags", func(t *testing.T) {
		s := "a [[One]] b [[Two]] [[]]"
		once := e.Substitute(s, Context{})
		assert.Equal(t, s, once)
		assert.Equal(t, once, e.Substitute(once, Context{}))
	})

	t.Run("should return empty content as is", func(t *testing.T) {
		assert.Equal(t, "", e.Substitute("", Context{}))
	})
}

func TestNewEngine_FirstMappingWins(t *testing.T) {
	e, _ := NewEngine([]models.BracketMapping{
		{TagName: "Tech", ObjectPath: models.Ptr("companyPlan.Tech")},
		{TagName: "TECH", ObjectPath: models.Ptr("company.Name")},
	})

	got := e.Substitute("[[tech]]", Context{Plan: &models.CompanyPlan{Tech: models.Ptr("T1")}})
	assert.Equal(t, "[[tech: T1]]", got)
}

func TestAddMonths(t *testing.T) {
	cases := []struct {
		from *time.Time
		n    int
		want string
	}{
		{day(2024, time.December, 31), 3, "03/31/2025"},
		{day(2024, time.November, 30), 3, "02/28/2025"},
		{day(2023, time.November, 30), 3, "02/29/2024"},
		{day(2024, time.March, 31), -1, "02/29/2024"},
		{day(2024, time.January, 15), 6, "07/15/2024"},
	}

	for _, tc := range cases {
		got := AddMonths(*tc.from, tc.n)
		assert.Equal(t, tc.want, got.Format(dateLayout))
	}
}
