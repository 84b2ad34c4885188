package milestone

import (
	"sort"
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

// Window is the span of both rolling risk scans.
const Window = 5 * 7 * 24 * time.Hour

// PastDue lists the milestones a study missed within the lookback window.
type PastDue struct {
	Study      string   `json:"study"`
	TA         string   `json:"ta"`
	Sourcing   string   `json:"sourcing"`
	Milestones []string `json:"milestones"`
}

// RiskGroup collects the forward risk reasons raised for one study.
type RiskGroup struct {
	Study    string   `json:"study"`
	TA       string   `json:"ta"`
	Sourcing string   `json:"sourcing"`
	Reasons  []string `json:"reasons"`
}

type ForwardRisks struct {
	NextFiveWeeks   []RiskGroup `json:"next_five_weeks"`
	BeyondFiveWeeks []RiskGroup `json:"beyond_five_weeks"`
}

// ScanPastDue reports, per study, milestones whose target fell within
// [now-5w, now] and that either completed late or are still open. Milestones
// are ordered by PriorityOrder.
func ScanPastDue(studies []*dataset.Study, cat Catalog, now time.Time) []PastDue {
	from := now.Add(-Window)
	var out []PastDue
	for _, st := range studies {
		var missed []string
		for _, def := range cat.Definitions {
			if !def.PastDueScan {
				continue
			}
			o := Observe(st, def)
			if !o.Determinable() || o.Target == nil {
				continue
			}
			t := *o.Target
			if t.Before(from) || t.After(now) {
				continue
			}
			if missedTarget(o, now) {
				missed = append(missed, def.Name)
			}
		}
		if len(missed) == 0 {
			continue
		}
		sort.SliceStable(missed, func(i, j int) bool { return priority(missed[i]) < priority(missed[j]) })
		out = append(out, PastDue{Study: st.Number, TA: st.TA, Sourcing: st.Sourcing, Milestones: missed})
	}
	return out
}

func missedTarget(o Observation, now time.Time) bool {
	target := o.Target
	if o.Actual != nil {
		return o.Actual.After(*target)
	}
	if o.Definition.Fractional() {
		return after(o.Plan, target)
	}
	return now.After(*target)
}

// ScanForward flags plans that overshoot targets ahead of now, split into
// targets due within the next five weeks and those beyond.
func ScanForward(studies []*dataset.Study, cat Catalog, now time.Time) ForwardRisks {
	horizon := now.Add(Window)
	next := newRiskGrouper()
	beyond := newRiskGrouper()

	for _, st := range studies {
		if Anchor(st) == nil {
			continue
		}
		for _, def := range cat.Definitions {
			if !def.ForwardScan {
				continue
			}
			// Leading milestones take their plan from the leading site, not the earliest plan over all sites.
			o := Observe(st, def)
			if def.Name == FPS && fsaBlocksFPS(st, cat, o, now) {
				next.add(st, DependentFPSReason)
			}
			if !o.Determinable() || o.Target == nil {
				continue
			}
			plan := o.Plan
			if def.Fractional() && o.Basis != BasisPlan {
				continue
			}
			if plan == nil || !plan.After(*o.Target) {
				continue
			}
			t := *o.Target
			switch {
			case t.After(now) && !t.After(horizon):
				next.add(st, def.Reason())
			case t.After(horizon):
				beyond.add(st, def.Reason())
			}
		}
	}
	return ForwardRisks{NextFiveWeeks: next.groups(), BeyondFiveWeeks: beyond.groups()}
}

// fsaBlocksFPS reports whether a missing FSA puts FPS at risk: FPS is not yet
// due, and either FSA is already overdue or FPS falls due within the window.
func fsaBlocksFPS(st *dataset.Study, cat Catalog, fps Observation, now time.Time) bool {
	fsaDef, ok := cat.Lookup(FSA)
	if !ok || fps.Target == nil {
		return false
	}
	fsa := Observe(st, fsaDef)
	if fsa.Actual != nil || fsa.Target == nil {
		return false
	}
	if now.After(*fps.Target) {
		return false
	}
	return now.After(*fsa.Target) || !fps.Target.After(now.Add(Window))
}

type riskGrouper struct {
	order   []string
	byStudy map[string]*RiskGroup
	seen    map[string]map[string]struct{}
}

func newRiskGrouper() *riskGrouper {
	return &riskGrouper{byStudy: make(map[string]*RiskGroup), seen: make(map[string]map[string]struct{})}
}

func (g *riskGrouper) add(st *dataset.Study, reason string) {
	key := st.Number + "\x00" + st.TA + "\x00" + st.Sourcing
	grp, ok := g.byStudy[key]
	if !ok {
		grp = &RiskGroup{Study: st.Number, TA: st.TA, Sourcing: st.Sourcing}
		g.byStudy[key] = grp
		g.seen[key] = make(map[string]struct{})
		g.order = append(g.order, key)
	}
	if _, dup := g.seen[key][reason]; dup {
		return
	}
	g.seen[key][reason] = struct{}{}
	grp.Reasons = append(grp.Reasons, reason)
}

func (g *riskGrouper) groups() []RiskGroup {
	out := make([]RiskGroup, 0, len(g.order))
	for _, key := range g.order {
		grp := *g.byStudy[key]
		sort.Strings(grp.Reasons)
		out = append(out, grp)
	}
	return out
}

// Count returns the number of flagged studies across both windows.
func (f ForwardRisks) Count() int {
	return len(f.NextFiveWeeks) + len(f.BeyondFiveWeeks)
}
