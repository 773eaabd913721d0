package models

type Company struct {
	CompanyID   int     `json:"companyId"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	MailingName *string `json:"mailingName,omitempty" validate:"omitempty,max=100"`
	Street1     *string `json:"street1,omitempty" validate:"omitempty,max=50"`
	Street2     *string `json:"street2,omitempty" validate:"omitempty,max=50"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=30"`
	State       *string `json:"state,omitempty" validate:"omitempty,max=2"`
	Zip         *string `json:"zip,omitempty" validate:"omitempty,max=50"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Fax         *string `json:"fax,omitempty" validate:"omitempty,max=20"`
}

type CompanyPlan struct {
	PlanID      int     `json:"planId"`
	CompanyID   *int    `json:"companyId,omitempty"`
	PlanType    *string `json:"planType,omitempty" validate:"omitempty,max=7"`
	PlanName    *string `json:"planName,omitempty" validate:"omitempty,max=200"`
	PlanYearEnd *string `json:"planYearEnd,omitempty" validate:"omitempty,max=10"`
	Tech        *string `json:"tech,omitempty" validate:"omitempty,max=4"`
}
