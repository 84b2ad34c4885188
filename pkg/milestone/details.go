package milestone

import (
	"sort"
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

type CTNCell struct {
	Date  *time.Time `json:"date,omitempty"`
	Basis Basis      `json:"basis"`
	// WeeksSince is the distance from the anchor to now.
	WeeksSince *float64 `json:"weeks_since,omitempty"`
}

type MilestoneCell struct {
	Milestone    string     `json:"milestone"`
	Date         *time.Time `json:"date,omitempty"`
	Basis        Basis      `json:"basis"`
	WeeksFromCTN *float64   `json:"weeks_from_ctn,omitempty"`
	Target       *time.Time `json:"target,omitempty"`
	Light        Light      `json:"light"`
}

type DetailRow struct {
	No         int             `json:"no"`
	TA         string          `json:"ta"`
	Study      string          `json:"study"`
	Sourcing   string          `json:"sourcing"`
	CTN        CTNCell         `json:"ctn"`
	Milestones []MilestoneCell `json:"milestones"`
}

// BuildDetails renders one row per study, ordered by anchor with missing
// anchors last, numbered from 1.
func BuildDetails(studies []*dataset.Study, cat Catalog, now time.Time) []DetailRow {
	ordered := make([]*dataset.Study, len(studies))
	copy(ordered, studies)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := Anchor(ordered[i]), Anchor(ordered[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	rows := make([]DetailRow, 0, len(ordered))
	for i, st := range ordered {
		row := DetailRow{No: i + 1, TA: st.TA, Study: st.Number, Sourcing: st.Sourcing, CTN: ctnCell(st, now)}
		for _, o := range ObserveAll(st, cat) {
			row.Milestones = append(row.Milestones, MilestoneCell{
				Milestone:    o.Definition.Name,
				Date:         o.Date(),
				Basis:        o.Basis,
				WeeksFromCTN: o.WeeksFromAnchor(),
				Target:       o.Target,
				Light:        o.Light(now),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

func ctnCell(st *dataset.Study, now time.Time) CTNCell {
	anchor := Anchor(st)
	if anchor == nil {
		return CTNCell{Basis: BasisNone}
	}
	basis := BasisPlan
	if st.CTNActual != nil {
		basis = BasisActual
	}
	w := roundWeeks(daysBetween(*anchor, now))
	return CTNCell{Date: anchor, Basis: basis, WeeksSince: &w}
}
