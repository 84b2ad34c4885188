package hgrac

import (
	"sort"
	"time"
)

// Row is the display form of one HGRAC record.
type Row struct {
	No                int        `json:"no"`
	TA                string     `json:"ta"`
	Study             string     `json:"study"`
	CTN               *time.Time `json:"ctn,omitempty"`
	CTNActual         bool       `json:"ctn_actual"`
	CTNOverdue        bool       `json:"ctn_overdue"`
	ApprovalType      string     `json:"approval_type"`
	LeadingECApproval *time.Time `json:"leading_ec_approval,omitempty"`
	LeadingContract   *time.Time `json:"leading_contract,omitempty"`
	ApplicationFinal  *time.Time `json:"application_final,omitempty"`
	FirstSubmission   *time.Time `json:"first_submission,omitempty"`
	Acceptance        *time.Time `json:"acceptance,omitempty"`
	Approval          *time.Time `json:"approval,omitempty"`
}

// BuildRows orders records by CTN with missing dates last and keeps only the
// studies in keep. A nil keep retains every record.
func BuildRows(records []Record, keep []string, now time.Time) []Row {
	var allowed map[string]struct{}
	if keep != nil {
		allowed = make(map[string]struct{}, len(keep))
		for _, s := range keep {
			allowed[s] = struct{}{}
		}
	}

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if allowed != nil {
			if _, ok := allowed[r.StudyNumber]; !ok {
				continue
			}
		}
		ctn, actual := r.CTN()
		rows = append(rows, Row{
			TA:                r.TA,
			Study:             r.StudyNumber,
			CTN:               ctn,
			CTNActual:         actual,
			CTNOverdue:        ctn != nil && !actual && ctn.Before(now),
			ApprovalType:      r.FilingOrApproval,
			LeadingECApproval: r.LeadingSiteECApprovalActualDate,
			LeadingContract:   r.LeadingSiteContractActualDate,
			ApplicationFinal:  r.ApplicationFinalDate,
			FirstSubmission:   r.FirstScienceDate,
			Acceptance:        r.OfficialDate,
			Approval:          r.ApprovalDate(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].CTN, rows[j].CTN
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	for i := range rows {
		rows[i].No = i + 1
	}
	return rows
}
