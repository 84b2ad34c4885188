package main

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/milestone"
)

func TestSplitTrimsAndDropsEmpty(t *testing.T) {
	got := split(" A1, ,B2,")
	if len(got) != 2 || got[0] != "A1" || got[1] != "B2" {
		t.Fatalf("unexpected split result %v", got)
	}
	if split("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestFilterFromSkipsUnknownCTNGroups(t *testing.T) {
	f := filterFrom("S1", "Oncology,Neuro", "", "CTN obtained,bogus", true)
	if len(f.Studies) != 1 || len(f.TAs) != 2 || len(f.Sourcings) != 0 {
		t.Fatalf("unexpected filter %+v", f)
	}
	if len(f.CTNGroups) != 1 || f.CTNGroups[0] != milestone.CTNObtained {
		t.Fatalf("expected only the obtained group, got %v", f.CTNGroups)
	}
	if !f.DueNextFiveWeeks {
		t.Fatalf("expected due flag to carry through")
	}
}
