package document

import (
	"sort"

	"github.com/rickylandino/val-builder-api/pkg/models"
)

// TextFunc rewrites stored text before it reaches the renderer.
type TextFunc func(string) string

// Assembler joins details to section definitions by group id.
type Assembler struct {
	transform TextFunc
}

// NewAssembler returns an Assembler. transform may be nil.
func NewAssembler(transform TextFunc) *Assembler {
	if transform == nil {
		transform = func(s string) string { return s }
	}
	return &Assembler{transform: transform}
}

// Assemble builds the document for header.
//
// Details are ordered by display order with ties kept in input order. Sections
// with no details are dropped. A group with details but no section definition
// gets a synthesized "Section {groupId}" section sorted by its group id. The
// merged list is stable-sorted by display order, so on a collision the defined
// section comes before the orphan, and orphans keep first-seen group order.
func (a *Assembler) Assemble(header models.ValHeader, details []models.ValDetail, sections []models.ValSection) Document {
	views := detailViews(details)
	sortDetails(views)

	groups := make(map[int][]Detail)
	var groupOrder []int
	for _, d := range views {
		d.Text = a.transform(d.Text)
		if _, ok := groups[d.GroupID]; !ok {
			groupOrder = append(groupOrder, d.GroupID)
		}
		groups[d.GroupID] = append(groups[d.GroupID], d)
	}

	defs := make([]models.ValSection, len(sections))
	copy(defs, sections)
	sort.SliceStable(defs, func(i, j int) bool {
		return models.Deref(defs[i].DisplayOrder) < models.Deref(defs[j].DisplayOrder)
	})

	out := make([]Section, 0, len(groups))
	defined := make(map[int]bool, len(defs))
	for _, def := range defs {
		defined[def.GroupID] = true
		groupDetails, ok := groups[def.GroupID]
		if !ok {
			continue
		}
		out = append(out, Section{
			GroupID:      def.GroupID,
			Title:        a.transform(models.Deref(def.SectionText)),
			DisplayOrder: models.Deref(def.DisplayOrder),
			Details:      groupDetails,
		})
	}

	for _, groupID := range groupOrder {
		if defined[groupID] {
			continue
		}
		out = append(out, Section{
			GroupID:      groupID,
			Title:        orphanTitle(groupID),
			DisplayOrder: groupID,
			Orphan:       true,
			Details:      groups[groupID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})

	return Document{Header: newHeader(header), Sections: out}
}
