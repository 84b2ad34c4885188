package milestone

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

func TestQuantileCountBounds(t *testing.T) {
	for n := 1; n <= 60; n++ {
		for _, f := range []float64{0.01, 0.25, 0.5, 0.7, 0.75, 1} {
			k := QuantileCount(n, f)
			if k < 1 || k > n {
				t.Fatalf("QuantileCount(%d, %v) = %d out of [1, n]", n, f, k)
			}
		}
	}
	if QuantileCount(4, 0.25) != 1 || QuantileCount(4, 0.75) != 3 || QuantileCount(5, 0.25) != 2 {
		t.Fatalf("unexpected quantile counts")
	}
	if QuantileCount(10, 0.7) != 7 {
		t.Fatalf("expected float noise to be ignored")
	}
	if QuantileCount(0, 0.25) != 0 {
		t.Fatalf("expected zero for an empty scope")
	}
}

func TestQuantileDatePlanBasis(t *testing.T) {
	sites := []*dataset.Site{
		site("site_sa_plan_date", "2024-02-01"),
		site("site_sa_plan_date", "2024-01-20"),
		site("site_sa_plan_date", "2024-03-01"),
		site("site_sa_plan_date", "2024-01-10"),
	}
	q := QuantileDate(sites, 0.25, "site_sa_actual_date", "site_sa_plan_date")
	if q.K != 1 || q.Basis != BasisPlan || !q.Date.Equal(day("2024-01-10")) {
		t.Fatalf("unexpected quantile: k=%d basis=%s date=%v", q.K, q.Basis, q.Date)
	}
}

func TestQuantileDateBases(t *testing.T) {
	sites := []*dataset.Site{
		site(),
		site("site_sa_actual_date", "2024-01-20"),
		site("site_sa_plan_date", "2024-01-10"),
		site("site_sa_actual_date", "2024-01-05", "site_sa_plan_date", "2024-03-01"),
	}
	cases := []struct {
		fraction float64
		basis    Basis
		date     string
	}{
		{0.25, BasisActual, "2024-01-05"},
		{0.5, BasisPlan, "2024-01-10"},
		{0.75, BasisPlan, "2024-01-20"},
		{1, BasisInsufficient, ""},
	}
	for _, tc := range cases {
		q := QuantileDate(sites, tc.fraction, "site_sa_actual_date", "site_sa_plan_date")
		if q.Basis != tc.basis {
			t.Fatalf("fraction %v: basis %s, want %s", tc.fraction, q.Basis, tc.basis)
		}
		if tc.date == "" {
			if q.Date != nil {
				t.Fatalf("fraction %v: expected no date, got %v", tc.fraction, q.Date)
			}
			continue
		}
		if !q.Date.Equal(day(tc.date)) {
			t.Fatalf("fraction %v: date %v, want %s", tc.fraction, q.Date, tc.date)
		}
	}
}

func TestQuantileDoesNotReorderScope(t *testing.T) {
	first := site("site_sa_plan_date", "2024-05-01")
	sites := []*dataset.Site{first, site("site_sa_plan_date", "2024-01-01")}
	QuantileDate(sites, 0.5, "site_sa_actual_date", "site_sa_plan_date")
	if sites[0] != first {
		t.Fatalf("scope slice was reordered")
	}
}
