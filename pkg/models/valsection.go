package models

// ValSection names a group of details. Column defaults are informational.
type ValSection struct {
	GroupID          int     `json:"groupId"`
	SectionText      *string `json:"sectionText,omitempty"`
	DisplayOrder     *int    `json:"displayOrder,omitempty"`
	DefaultColWidth1 *int    `json:"defaultColWidth1,omitempty"`
	DefaultColWidth2 *int    `json:"defaultColWidth2,omitempty"`
	DefaultColWidth3 *int    `json:"defaultColWidth3,omitempty"`
	DefaultColWidth4 *int    `json:"defaultColWidth4,omitempty"`
	DefaultColType1  *string `json:"defaultColType1,omitempty"`
	DefaultColType2  *string `json:"defaultColType2,omitempty"`
	DefaultColType3  *string `json:"defaultColType3,omitempty"`
	DefaultColType4  *string `json:"defaultColType4,omitempty"`
	AutoIndent       *bool   `json:"autoIndent,omitempty"`
}

type ValTemplateItem struct {
	ItemID       int     `json:"itemId"`
	GroupID      int     `json:"groupId"`
	ItemText     *string `json:"itemText,omitempty" validate:"omitempty,max=1000"`
	DisplayOrder *int    `json:"displayOrder,omitempty"`
	DefaultOnVal *bool   `json:"defaultOnVal,omitempty"`
	Layout
}

type ItemOrder struct {
	ItemID       int `json:"itemId" validate:"required"`
	DisplayOrder int `json:"displayOrder"`
}

type TemplateItemOrderUpdate struct {
	GroupID *int        `json:"groupId"`
	Items   []ItemOrder `json:"items" validate:"dive"`
}
