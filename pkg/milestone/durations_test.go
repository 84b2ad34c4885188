package milestone

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

func TestMedianDurations(t *testing.T) {
	header := []string{"study_number", "leading_site_or_not"}
	lead := site("study_ctn_actual_date", "2024-01-01", "site_sa_actual_date", "2024-01-11")
	lead.Leading = true
	st := study("M", header,
		lead,
		site("study_ctn_actual_date", "2024-01-01", "site_sa_actual_date", "2024-01-21"),
		site("study_ctn_actual_date", "2024-01-01", "site_sa_actual_date", "2024-01-26"),
		site("study_ctn_actual_date", "2024-01-01"),
	)
	flows := []Flow{{Name: "CTN-SA", Start: "study_ctn_actual_date", End: "site_sa_actual_date"}, {Name: "none", Start: "a_date", End: "b_date"}}

	all := MedianDurations([]*dataset.Study{st}, flows, false)
	if all[0].MedianDays == nil || *all[0].MedianDays != 20 || all[0].Samples != 3 {
		t.Fatalf("unexpected median %+v", all[0])
	}
	if all[1].MedianDays != nil || all[1].Samples != 0 {
		t.Fatalf("expected missing median, got %+v", all[1])
	}

	leading := MedianDurations([]*dataset.Study{st}, flows, true)
	if *leading[0].MedianDays != 10 || leading[0].Samples != 1 {
		t.Fatalf("unexpected leading median %+v", leading[0])
	}
}

func TestMedianEvenCountTruncates(t *testing.T) {
	if m := median([]int{10, 21}); *m != 15 {
		t.Fatalf("expected 15, got %d", *m)
	}
	if m := median([]int{7, 1, 4}); *m != 4 {
		t.Fatalf("expected 4, got %d", *m)
	}
	if median(nil) != nil {
		t.Fatalf("expected nil median for no samples")
	}
}
