package hgrac

import (
	"time"

	"gorm.io/datatypes"
)

// Record is one study row of the regulatory tracking table.
type Record struct {
	StudyNumber                     string            `gorm:"column:study_number" json:"study_number"`
	TA                              string            `gorm:"column:ta" json:"ta"`
	CTNActualDate                   *time.Time        `gorm:"column:ctn_actual_date" json:"ctn_actual_date,omitempty"`
	CTNPlanDate                     *time.Time        `gorm:"column:ctn_plan_date" json:"ctn_plan_date,omitempty"`
	FilingOrApproval                string            `gorm:"column:filling_or_approval" json:"filling_or_approval"`
	LeadingSiteECApprovalActualDate *time.Time        `gorm:"column:leading_site_ec_approval_actual_date" json:"leading_site_ec_approval_actual_date,omitempty"`
	LeadingSiteContractActualDate   *time.Time        `gorm:"column:leading_site_contract_signoff_actual_date" json:"leading_site_contract_signoff_actual_date,omitempty"`
	ApplicationFinalDate            *time.Time        `gorm:"column:application_final_date" json:"application_final_date,omitempty"`
	FirstScienceDate                *time.Time        `gorm:"column:first_science_date" json:"first_science_date,omitempty"`
	OfficialDate                    *time.Time        `gorm:"column:official_date" json:"official_date,omitempty"`
	PublicDate                      *time.Time        `gorm:"column:public_date" json:"public_date,omitempty"`
	PublishDate                     *time.Time        `gorm:"column:publish_date" json:"publish_date,omitempty"`
	Attributes                      datatypes.JSONMap `gorm:"column:attributes" json:"attributes,omitempty"`
}

// ApprovalDate prefers the public date over the publish date.
func (r Record) ApprovalDate() *time.Time {
	if r.PublicDate != nil {
		return r.PublicDate
	}
	return r.PublishDate
}

// CTN returns the anchor date and whether it is an actual.
func (r Record) CTN() (*time.Time, bool) {
	if r.CTNActualDate != nil {
		return r.CTNActualDate, true
	}
	return r.CTNPlanDate, false
}
