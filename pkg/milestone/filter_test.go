package milestone

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

func filterFixture() *dataset.Dataset {
	a := study("A", nil, site("study_ctn_actual_date", "2024-01-01", "study_fsa_plan_date", "2024-03-01"))
	a.TA, a.Sourcing = "Oncology", "FSO"
	b := study("B", nil, site("study_ctn_plan_date", "2024-04-01"))
	b.TA, b.Sourcing = "Neuro", "FSP"
	c := study("C", nil, site("study_ctn_plan_date", "2025-01-01"))
	c.TA, c.Sourcing = "Oncology", "FSP"
	return dataset.New([]string{"study_number", "study_ctn_plan_date", "study_ctn_actual_date"}, a, b, c)
}

func TestFilterApply(t *testing.T) {
	ds := filterFixture()
	cat := DefaultCatalog()
	now := day("2024-02-15")

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty", Filter{}, []string{"A", "B", "C"}},
		{"study", Filter{Studies: []string{"b"}}, []string{"B"}},
		{"ta", Filter{TAs: []string{"Oncology"}}, []string{"A", "C"}},
		{"ta and sourcing", Filter{TAs: []string{"Oncology"}, Sourcings: []string{"FSP"}}, []string{"C"}},
		{"ctn group", Filter{CTNGroups: []CTNGroup{CTNNextThreeMonths}}, []string{"B"}},
		{"due next five weeks", Filter{DueNextFiveWeeks: true}, []string{"A"}},
	}
	for _, tc := range cases {
		got := tc.filter.Apply(ds, cat, now).StudyNumbers()
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
			}
		}
	}
	if len(ds.Studies) != 3 {
		t.Fatalf("filter mutated the source dataset")
	}
}

func TestDueWithinIgnoresCompleted(t *testing.T) {
	st := study("D", nil, site(
		"study_ctn_actual_date", "2024-01-01",
		"study_fsa_actual_date", "2024-02-01",
		"study_imp_ready_actual_date", "2024-02-01",
		"study_sfr_actual_date", "2024-02-01",
		"study_hia_actual_date", "2024-02-01",
		"study_fps_plan_date", "2024-03-20",
	))
	if DueWithin(st, only(FSA, IMP, Facility, HGRAC), day("2024-02-15")) {
		t.Fatalf("completed milestones are not due")
	}
	if !DueWithin(st, only(FPS), day("2024-02-25")) {
		t.Fatalf("expected FPS to be due")
	}
}

func TestDueWithinRequiresPlan(t *testing.T) {
	st := study("E", nil, site("study_ctn_actual_date", "2024-01-01"))
	if DueWithin(st, only(FSA), day("2024-02-20")) {
		t.Fatalf("a milestone without a plan date is not due")
	}
	st = study("E", nil, site("study_ctn_actual_date", "2024-01-01", "study_fsa_plan_date", "2024-03-10"))
	if !DueWithin(st, only(FSA), day("2024-02-20")) {
		t.Fatalf("expected planned FSA to be due")
	}
}

func TestDueWithinFractionalNeedsPlanBasis(t *testing.T) {
	now := day("2024-03-10")
	planned := study("F", nil,
		site("study_ctn_actual_date", "2024-01-01", "site_sa_plan_date", "2024-03-25"),
		site("study_ctn_actual_date", "2024-01-01"),
	)
	if !DueWithin(planned, only(SA25), now) {
		t.Fatalf("expected 25%% SA on plan basis to be due")
	}
	undated := study("G", nil, site("study_ctn_actual_date", "2024-01-01"))
	if DueWithin(undated, only(SA25), now) {
		t.Fatalf("a quantile without dates is not due")
	}
}
