package milestone

import (
	"strings"
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

// Filter selects the studies a pass operates on. Empty criteria match
// everything.
type Filter struct {
	Studies   []string   `json:"studies,omitempty"`
	TAs       []string   `json:"tas,omitempty"`
	Sourcings []string   `json:"sourcings,omitempty"`
	CTNGroups []CTNGroup `json:"ctn_groups,omitempty"`
	// DueNextFiveWeeks keeps studies with an open milestone due in
	// (now, now+5w].
	DueNextFiveWeeks bool `json:"due_next_five_weeks,omitempty"`
}

func (f Filter) IsEmpty() bool {
	return len(f.Studies) == 0 && len(f.TAs) == 0 && len(f.Sourcings) == 0 &&
		len(f.CTNGroups) == 0 && !f.DueNextFiveWeeks
}

// Apply returns the projection of ds matching f.
func (f Filter) Apply(ds *dataset.Dataset, cat Catalog, now time.Time) *dataset.Dataset {
	if f.IsEmpty() {
		return ds
	}
	return ds.Project(func(st *dataset.Study) bool { return f.Match(st, cat, now) })
}

func (f Filter) Match(st *dataset.Study, cat Catalog, now time.Time) bool {
	if !contains(f.Studies, st.Number) || !contains(f.TAs, st.TA) || !contains(f.Sourcings, st.Sourcing) {
		return false
	}
	if len(f.CTNGroups) > 0 {
		g := CTNGroupOf(st, now)
		found := false
		for _, want := range f.CTNGroups {
			if want == g {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DueNextFiveWeeks && !DueWithin(st, cat, now) {
		return false
	}
	return true
}

// DueWithin reports whether some milestone of st is still open, has a plan
// date, and its target falls in (now, now+5w]. A fractional milestone counts
// only while its quantile rests on plan dates.
func DueWithin(st *dataset.Study, cat Catalog, now time.Time) bool {
	horizon := now.Add(Window)
	for _, def := range cat.Definitions {
		o := Observe(st, def)
		if o.Skipped || o.Target == nil || o.Actual != nil || o.Plan == nil {
			continue
		}
		if def.Fractional() && o.Basis != BasisPlan {
			continue
		}
		if o.Target.After(now) && !o.Target.After(horizon) {
			return true
		}
	}
	return false
}

// contains treats an empty list as a wildcard.
func contains(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}

// ParseCTNGroup maps user input onto a CTN group, ignoring case.
func ParseCTNGroup(s string) (CTNGroup, bool) {
	for _, g := range CTNGroups {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, true
		}
	}
	return "", false
}
