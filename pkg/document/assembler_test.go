package document

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickylandino/val-builder-api/pkg/models"
)

func detail(group, order int, text string) models.ValDetail {
	return models.ValDetail{
		ValDetailsID: uuid.New(),
		ValID:        models.Ptr(1),
		GroupID:      models.Ptr(group),
		DisplayOrder: models.Ptr(order),
		GroupContent: models.Ptr(text),
	}
}

func section(group, order int, title string) models.ValSection {
	return models.ValSection{GroupID: group, DisplayOrder: models.Ptr(order), SectionText: models.Ptr(title)}
}

func texts(s Section) []string {
	out := make([]string, 0, len(s.Details))
	for _, d := range s.Details {
		out = append(out, d.Text)
	}
	return out
}

func TestAssemble(t *testing.T) {
	header := models.ValHeader{ValID: 1, ValDescription: models.Ptr("2024 Valuation"), RecipientName: models.Ptr("Acme")}

	t.Run("should order details by display order and keep ties in input order", func(t *testing.T) {
		doc := NewAssembler(nil).Assemble(header,
			[]models.ValDetail{detail(1, 3, "c"), detail(1, 1, "a"), detail(1, 2, "b1"), detail(1, 2, "b2")},
			[]models.ValSection{section(1, 1, "Intro")})

		require.Len(t, doc.Sections, 1)
		assert.Equal(t, []string{"a", "b1", "b2", "c"}, texts(doc.Sections[0]))
		assert.Equal(t, "Intro", doc.Sections[0].Title)
		assert.Equal(t, "2024 Valuation", doc.Header.Description)
	})

	t.Run("should drop sections without details", func(t *testing.T) {
		doc := NewAssembler(nil).Assemble(header,
			[]models.ValDetail{detail(2, 1, "x")},
			[]models.ValSection{section(1, 1, "Empty"), section(2, 2, "Full")})

		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "Full", doc.Sections[0].Title)
	})

	t.Run("should synthesize orphan sections sorted by group id", func(t *testing.T) {
		doc := NewAssembler(nil).Assemble(header,
			[]models.ValDetail{detail(9, 1, "nine"), detail(5, 1, "five"), detail(1, 1, "one")},
			[]models.ValSection{section(1, 7, "Defined")})

		require.Len(t, doc.Sections, 3)
		assert.Equal(t, "Section 5", doc.Sections[0].Title)
		assert.True(t, doc.Sections[0].Orphan)
		assert.Equal(t, "Defined", doc.Sections[1].Title)
		assert.Equal(t, "Section 9", doc.Sections[2].Title)
	})

	t.Run("should put the defined section first on a display order collision", func(t *testing.T) {
		doc := NewAssembler(nil).Assemble(header,
			[]models.ValDetail{detail(3, 1, "orphan"), detail(1, 1, "defined")},
			[]models.ValSection{section(1, 3, "Three")})

		require.Len(t, doc.Sections, 2)
		assert.Equal(t, "Three", doc.Sections[0].Title)
		assert.Equal(t, "Section 3", doc.Sections[1].Title)
	})

	t.Run("should order defined sections by their own display order", func(t *testing.T) {
		doc := NewAssembler(nil).Assemble(header,
			[]models.ValDetail{detail(1, 1, "a"), detail(2, 1, "b")},
			[]models.ValSection{section(1, 20, "Later"), section(2, 10, "Sooner")})

		require.Len(t, doc.Sections, 2)
		assert.Equal(t, "Sooner", doc.Sections[0].Title)
		assert.Equal(t, "Later", doc.Sections[1].Title)
	})

	t.Run("should apply the transform to detail text and section titles", func(t *testing.T) {
		doc := NewAssembler(strings.ToUpper).Assemble(header,
			[]models.ValDetail{detail(1, 1, "text")},
			[]models.ValSection{section(1, 1, "title")})

		assert.Equal(t, "TITLE", doc.Sections[0].Title)
		assert.Equal(t, []string{"TEXT"}, texts(doc.Sections[0]))
		assert.Equal(t, 1, doc.DetailCount())
	})

	t.Run("should default nil layout flags", func(t *testing.T) {
		row := detail(1, 1, "x")
		row.Layout = models.Layout{Bold: models.Ptr(true), Indent: models.Ptr(2)}
		doc := NewAssembler(nil).Assemble(header, []models.ValDetail{row}, []models.ValSection{section(1, 1, "s")})

		d := doc.Sections[0].Details[0]
		assert.True(t, d.Bold)
		assert.Equal(t, 2, d.Indent)
		assert.False(t, d.Bullet)
		assert.Equal(t, 0, d.BlankLineAfter)
	})
}
