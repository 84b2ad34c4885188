package milestone

import (
	"math"
	"sort"
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

type Basis string

const (
	BasisActual       Basis = "actual"
	BasisPlan         Basis = "plan"
	BasisNone         Basis = "none"
	BasisInsufficient Basis = "insufficient data"
)

// Quantile is the outcome of picking the k earliest activating sites.
type Quantile struct {
	Date     *time.Time
	Basis    Basis
	K        int
	TopSites []*dataset.Site
}

// QuantileCount returns max(1, ceil(n*fraction)) bounded by n.
func QuantileCount(n int, fraction float64) int {
	if n <= 0 {
		return 0
	}
	// guard against float noise such as 0.7*10 = 7.000000000000001
	k := int(math.Ceil(float64(n)*fraction - 1e-9))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// QuantileDate selects the representative date of the slowest site among
// the earliest ceil(n*fraction) sites of scope.
func QuantileDate(scope []*dataset.Site, fraction float64, actualCol, planCol string) Quantile {
	k := QuantileCount(len(scope), fraction)
	if k == 0 {
		return Quantile{Basis: BasisInsufficient}
	}

	ordered := make([]*dataset.Site, len(scope))
	copy(ordered, scope)
	activation := func(s *dataset.Site) *time.Time {
		return Resolve(s.Date(actualCol), s.Date(planCol))
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := activation(ordered[i]), activation(ordered[j])
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	top := ordered[:k]

	q := Quantile{K: k, TopSites: top}
	if d := maxOf(top, func(s *dataset.Site) *time.Time { return s.Date(actualCol) }); d != nil {
		q.Date, q.Basis = d, BasisActual
		return q
	}
	if d := maxOf(top, activation); d != nil {
		q.Date, q.Basis = d, BasisPlan
		return q
	}
	q.Basis = BasisInsufficient
	return q
}

// maxOf returns the latest value of get over sites, or nil if any site has
// no value.
func maxOf(sites []*dataset.Site, get func(*dataset.Site) *time.Time) *time.Time {
	var max *time.Time
	for _, s := range sites {
		d := get(s)
		if d == nil {
			return nil
		}
		if max == nil || d.After(*max) {
			max = d
		}
	}
	return max
}
