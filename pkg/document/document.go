// Package document shapes stored VAL rows into the per-render view model.
package document

import (
	"fmt"
	"sort"
	"time"

	"github.com/Gobusters/ectolinq"
	"github.com/google/uuid"

	"github.com/rickylandino/val-builder-api/pkg/models"
)

// Document is built fresh for one render and never persisted.
type Document struct {
	Header   Header
	Sections []Section
}

type Header struct {
	ValID             int
	Description       string
	PlanYearBeginDate *time.Time
	PlanYearEndDate   *time.Time
	RecipientName     string
}

type Section struct {
	GroupID      int
	Title        string
	DisplayOrder int
	Orphan       bool
	Details      []Detail
}

type Detail struct {
	ID              uuid.UUID
	GroupID         int
	Text            string
	DisplayOrder    int
	Bullet          bool
	Indent          int
	Bold            bool
	Center          bool
	TightLineHeight bool
	BlankLineAfter  int
}

// DetailCount returns the number of detail lines across sections.
func (d Document) DetailCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Details)
	}
	return n
}

func newHeader(h models.ValHeader) Header {
	return Header{
		ValID:             h.ValID,
		Description:       models.Deref(h.ValDescription),
		PlanYearBeginDate: h.PlanYearBeginDate,
		PlanYearEndDate:   h.PlanYearEndDate,
		RecipientName:     models.Deref(h.RecipientName),
	}
}

func newDetail(d models.ValDetail) Detail {
	return Detail{
		ID:              d.ValDetailsID,
		GroupID:         models.Deref(d.GroupID),
		Text:            models.Deref(d.GroupContent),
		DisplayOrder:    models.Deref(d.DisplayOrder),
		Bullet:          models.Deref(d.Bullet),
		Indent:          models.Deref(d.Indent),
		Bold:            models.Deref(d.Bold),
		Center:          models.Deref(d.Center),
		TightLineHeight: models.Deref(d.TightLineHeight),
		BlankLineAfter:  models.Deref(d.BlankLineAfter),
	}
}

func orphanTitle(groupID int) string {
	return fmt.Sprintf("Section %d", groupID)
}

func sortDetails(details []Detail) {
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].DisplayOrder < details[j].DisplayOrder
	})
}

func detailViews(rows []models.ValDetail) []Detail {
	return ectolinq.Map(rows, newDetail)
}
