package models

import "github.com/google/uuid"

// Layout holds the rendering flags shared by details and template items.
type Layout struct {
	Bullet          *bool `json:"bullet,omitempty"`
	Indent          *int  `json:"indent,omitempty" validate:"omitempty,min=0"`
	Bold            *bool `json:"bold,omitempty"`
	Center          *bool `json:"center,omitempty"`
	BlankLineAfter  *int  `json:"blankLineAfter,omitempty" validate:"omitempty,min=0"`
	TightLineHeight *bool `json:"tightLineHeight,omitempty"`
}

// ValDetail is one content line of a document.
type ValDetail struct {
	ValDetailsID uuid.UUID `json:"valDetailsId"`
	ValID        *int      `json:"valId,omitempty"`
	GroupID      *int      `json:"groupId,omitempty"`
	GroupContent *string   `json:"groupContent,omitempty"`
	DisplayOrder *int      `json:"displayOrder,omitempty"`
	Layout
}

type DetailAction string

const (
	DetailActionCreate DetailAction = "create"
	DetailActionUpdate DetailAction = "update"
	DetailActionDelete DetailAction = "delete"
)

type DetailChange struct {
	Action string     `json:"action"`
	Detail *ValDetail `json:"detail"`
}

type DetailChangeSet struct {
	ValID   *int           `json:"valId"`
	Changes []DetailChange `json:"changes"`
}

type DetailSaveResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	ItemsCreated int      `json:"itemsCreated"`
	ItemsUpdated int      `json:"itemsUpdated"`
	ItemsDeleted int      `json:"itemsDeleted"`
	Errors       []string `json:"errors,omitempty"`
	Error        *string  `json:"error,omitempty"`
}
