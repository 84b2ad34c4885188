package milestone

import (
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

type CTNGroup string

const (
	CTNObtained         CTNGroup = "CTN obtained"
	CTNNextThreeMonths  CTNGroup = "Planned in next 3M"
	CTNAfterThreeMonths CTNGroup = "After 3M"
)

var CTNGroups = []CTNGroup{CTNObtained, CTNNextThreeMonths, CTNAfterThreeMonths}

// CTNGroupOf buckets a study by CTN progress. Overdue plans count as
// planned in the next three months.
func CTNGroupOf(st *dataset.Study, now time.Time) CTNGroup {
	if st.CTNActual != nil {
		return CTNObtained
	}
	if st.CTNPlan != nil && !st.CTNPlan.After(addMonths(now, 3)) {
		return CTNNextThreeMonths
	}
	return CTNAfterThreeMonths
}

type CTNStatus struct {
	Total             int `json:"total"`
	Obtained          int `json:"obtained"`
	PlannedNextThreeM int `json:"planned_next_3m"`
	AfterThreeM       int `json:"after_3m"`
}

func SummarizeCTN(studies []*dataset.Study, now time.Time) CTNStatus {
	var s CTNStatus
	for _, st := range studies {
		s.Total++
		switch CTNGroupOf(st, now) {
		case CTNObtained:
			s.Obtained++
		case CTNNextThreeMonths:
			s.PlannedNextThreeM++
		default:
			s.AfterThreeM++
		}
	}
	return s
}

// addMonths adds calendar months, clamping to the last day of the target
// month (Nov 30 + 3 months is Feb 28 or 29).
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
