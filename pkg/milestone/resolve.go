package milestone

import (
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

// Resolve picks the actual date when present, otherwise the plan date.
func Resolve(actual, plan *time.Time) *time.Time {
	if actual != nil {
		return actual
	}
	return plan
}

// Anchor is the study's CTN baseline: actual if present, else plan.
func Anchor(st *dataset.Study) *time.Time {
	return Resolve(st.CTNActual, st.CTNPlan)
}

// Target returns anchor shifted by offsetWeeks, or nil without an anchor.
func Target(anchor *time.Time, offsetWeeks float64) *time.Time {
	if anchor == nil {
		return nil
	}
	t := anchor.Add(weeks(offsetWeeks))
	return &t
}

func weeks(w float64) time.Duration {
	return time.Duration(w * 7 * 24 * float64(time.Hour))
}

func earliest(sites []*dataset.Site, column string) *time.Time {
	var min *time.Time
	for _, s := range sites {
		if d := s.Date(column); d != nil && (min == nil || d.Before(*min)) {
			min = d
		}
	}
	return min
}

func leadingSites(st *dataset.Study) []*dataset.Site {
	if !st.HasColumn("leading_site_or_not") {
		return st.Sites
	}
	var out []*dataset.Site
	for _, s := range st.Sites {
		if s.Leading {
			out = append(out, s)
		}
	}
	return out
}

func after(a, b *time.Time) bool {
	return a != nil && b != nil && a.After(*b)
}
