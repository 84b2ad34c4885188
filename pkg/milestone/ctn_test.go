package milestone

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

func TestCTNGroups(t *testing.T) {
	now := day("2024-11-30")
	studies := []*dataset.Study{
		study("obtained", nil, site("study_ctn_actual_date", "2024-01-01", "study_ctn_plan_date", "2025-06-01")),
		study("overdue", nil, site("study_ctn_plan_date", "2024-01-01")),
		study("edge", nil, site("study_ctn_plan_date", "2025-02-28")),
		study("later", nil, site("study_ctn_plan_date", "2025-03-01")),
		study("unplanned", nil),
	}
	want := []CTNGroup{CTNObtained, CTNNextThreeMonths, CTNNextThreeMonths, CTNAfterThreeMonths, CTNAfterThreeMonths}
	for i, st := range studies {
		if got := CTNGroupOf(st, now); got != want[i] {
			t.Fatalf("%s: got %q, want %q", st.Number, got, want[i])
		}
	}

	s := SummarizeCTN(studies, now)
	if s.Total != 5 || s.Obtained != 1 || s.PlannedNextThreeM != 2 || s.AfterThreeM != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := map[string]string{
		"2024-11-30": "2025-02-28",
		"2023-11-30": "2024-02-29",
		"2024-01-15": "2024-04-15",
		"2024-10-31": "2025-01-31",
	}
	for from, want := range cases {
		if got := addMonths(day(from), 3); !got.Equal(day(want)) {
			t.Fatalf("addMonths(%s) = %s, want %s", from, got.Format("2006-01-02"), want)
		}
	}
}

func TestParseCTNGroup(t *testing.T) {
	if g, ok := ParseCTNGroup(" ctn OBTAINED "); !ok || g != CTNObtained {
		t.Fatalf("unexpected parse result %q %v", g, ok)
	}
	if _, ok := ParseCTNGroup("soon"); ok {
		t.Fatalf("expected unknown group to fail")
	}
}
