package milestone

import (
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

// Observation is one milestone resolved for one study.
type Observation struct {
	Study      *dataset.Study
	Definition Definition
	Anchor     *time.Time
	Target     *time.Time

	// Actual and Plan are the representative dates. For fractional
	// milestones only the one matching Basis is set.
	Actual *time.Time
	Plan   *time.Time
	Basis  Basis

	// Skipped is set when the milestone does not apply: no leading site or
	// an empty site scope.
	Skipped  bool
	Quantile *Quantile
}

func Observe(st *dataset.Study, def Definition) Observation {
	anchor := Anchor(st)
	o := Observation{
		Study:      st,
		Definition: def,
		Anchor:     anchor,
		Target:     Target(anchor, def.OffsetWeeks),
	}

	switch {
	case def.Fractional():
		scope := SiteScope(st)
		if len(scope) == 0 {
			o.Skipped, o.Basis = true, BasisNone
			return o
		}
		q := QuantileDate(scope, def.Fraction, def.ActualColumn, def.PlanColumn)
		o.Quantile = &q
		o.Basis = q.Basis
		switch q.Basis {
		case BasisActual:
			o.Actual = q.Date
		case BasisPlan:
			o.Plan = q.Date
		}
		return o
	case def.Leading:
		lead := leadingSites(st)
		if len(lead) == 0 {
			o.Skipped, o.Basis = true, BasisNone
			return o
		}
		o.Actual = lead[0].Date(def.ActualColumn)
		o.Plan = lead[0].Date(def.PlanColumn)
	default:
		o.Actual = earliest(st.Sites, def.ActualColumn)
		o.Plan = earliest(st.Sites, def.PlanColumn)
	}

	switch {
	case o.Actual != nil:
		o.Basis = BasisActual
	case o.Plan != nil:
		o.Basis = BasisPlan
	default:
		o.Basis = BasisNone
	}
	return o
}

// Date is the representative date: actual if known, else plan.
func (o Observation) Date() *time.Time {
	return Resolve(o.Actual, o.Plan)
}

// Determinable reports whether the observation may take part in cohort
// statistics and risk scans.
func (o Observation) Determinable() bool {
	return !o.Skipped && o.Basis != BasisInsufficient && o.Anchor != nil
}

func (o Observation) Light(now time.Time) Light {
	if o.Skipped {
		return NoLight
	}
	return Classify(o.Actual, o.Plan, o.Target, now)
}

func (o Observation) Bucket(now time.Time) Bucket {
	if !o.Determinable() {
		return Unclassified
	}
	return Bucketize(o.Anchor, o.Actual, o.Plan, weeks(o.Definition.OffsetWeeks), now)
}

// WeeksFromAnchor is the distance between the representative date and the
// anchor in weeks, rounded to one decimal.
func (o Observation) WeeksFromAnchor() *float64 {
	d := o.Date()
	if d == nil || o.Anchor == nil {
		return nil
	}
	w := roundWeeks(daysBetween(*o.Anchor, *d))
	return &w
}

// ObserveAll resolves every catalogue milestone for st, in catalogue order.
func ObserveAll(st *dataset.Study, cat Catalog) []Observation {
	out := make([]Observation, 0, len(cat.Definitions))
	for _, def := range cat.Definitions {
		out = append(out, Observe(st, def))
	}
	return out
}
