package models

import "time"

// ValHeader identifies one valuation document.
type ValHeader struct {
	ValID             int        `json:"valId"`
	PlanID            *int       `json:"planId,omitempty"`
	ValDescription    *string    `json:"valDescription,omitempty" validate:"omitempty,max=100"`
	ValDate           *time.Time `json:"valDate,omitempty"`
	PlanYearBeginDate *time.Time `json:"planYearBeginDate,omitempty"`
	PlanYearEndDate   *time.Time `json:"planYearEndDate,omitempty"`
	RecipientName     *string    `json:"recipientName,omitempty" validate:"omitempty,max=100"`
	RecipientAddress1 *string    `json:"recipientAddress1,omitempty" validate:"omitempty,max=50"`
	RecipientAddress2 *string    `json:"recipientAddress2,omitempty" validate:"omitempty,max=50"`
	RecipientCity     *string    `json:"recipientCity,omitempty" validate:"omitempty,max=30"`
	RecipientState    *string    `json:"recipientState,omitempty" validate:"omitempty,max=2"`
	RecipientZip      *string    `json:"recipientZip,omitempty" validate:"omitempty,max=10"`
	FinalizeDate      *time.Time `json:"finalizeDate,omitempty"`
	FinalizedBy       *string    `json:"finalizedBy,omitempty" validate:"omitempty,max=16"`
	WordDocPath       *string    `json:"wordDocPath,omitempty" validate:"omitempty,max=200"`
	ValStatusID       *int       `json:"valStatusId,omitempty"`
	MarginLeftRight   *int       `json:"marginLeftRight,omitempty"`
	MarginTopBottom   *int       `json:"marginTopBottom,omitempty"`
	FontSize          *int       `json:"fontSize,omitempty"`
	ValYear           *int       `json:"valYear,omitempty"`
	ValQuarter        *int       `json:"valQuarter,omitempty"`
}
