package milestone

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	target := ptr("2024-03-04")
	cases := []struct {
		name   string
		actual *time.Time
		plan   *time.Time
		now    time.Time
		want   Light
	}{
		{"late actual", ptr("2024-03-15"), ptr("2024-02-01"), day("2024-03-20"), Red},
		{"late actual ignores early plan", ptr("2024-03-05"), ptr("2024-01-01"), day("2024-01-02"), Red},
		{"on time actual", ptr("2024-03-04"), ptr("2024-05-01"), day("2024-06-01"), Green},
		{"deadline passed", nil, ptr("2024-02-01"), day("2024-03-05"), Red},
		{"late plan", nil, ptr("2024-03-10"), day("2024-02-01"), Yellow},
		{"on time plan", nil, ptr("2024-03-01"), day("2024-02-01"), NoLight},
		{"no dates", nil, nil, day("2024-02-01"), NoLight},
	}
	for _, tc := range cases {
		if got := Classify(tc.actual, tc.plan, target, tc.now); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
	if got := Classify(ptr("2024-03-15"), nil, nil, day("2024-03-20")); got != NoLight {
		t.Fatalf("expected no light without a target, got %s", got)
	}
}

func TestClassifyCountryPackagePlanLate(t *testing.T) {
	st := study("D", nil, site(
		"study_ctn_actual_date", "2024-01-01",
		"country_package_ready_plan_date", "2023-10-20",
	))
	o := Observe(st, mustLookup(CountryPackage))
	if !o.Target.Equal(day("2023-10-09")) {
		t.Fatalf("unexpected target %v", o.Target)
	}
	if got := o.Light(day("2023-10-01")); got != Yellow {
		t.Fatalf("expected yellow, got %s", got)
	}
}

func TestBucketize(t *testing.T) {
	anchor := ptr("2024-01-01")
	threshold := weeks(9)
	cases := []struct {
		name   string
		actual *time.Time
		plan   *time.Time
		now    time.Time
		want   Bucket
	}{
		{"meet", ptr("2024-03-04"), nil, day("2024-06-01"), Meet},
		{"miss", ptr("2024-03-15"), nil, day("2024-06-01"), Miss},
		{"deadline passed beats plan", nil, ptr("2024-02-01"), day("2024-03-05"), InProgressMiss},
		{"predicted meet", nil, ptr("2024-03-01"), day("2024-02-01"), PredictedMeet},
		{"predicted miss", nil, ptr("2024-03-10"), day("2024-02-01"), PredictedMiss},
		{"nothing to judge yet", nil, nil, day("2024-02-01"), Unclassified},
	}
	for _, tc := range cases {
		if got := Bucketize(anchor, tc.actual, tc.plan, threshold, tc.now); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
	if got := Bucketize(nil, ptr("2024-03-01"), nil, threshold, day("2024-06-01")); got != Unclassified {
		t.Fatalf("expected unclassified without anchor, got %q", got)
	}
}

func TestBucketizeCountsWholeDays(t *testing.T) {
	anchor := ptr("2024-01-01")
	threshold := weeks(12)
	deadlineDay := day("2024-03-25").Add(10 * time.Hour)
	if got := Bucketize(anchor, nil, ptr("2024-03-20"), threshold, deadlineDay); got != PredictedMeet {
		t.Fatalf("deadline day is still open, got %q", got)
	}
	if got := Bucketize(anchor, nil, ptr("2024-03-20"), threshold, day("2024-03-26")); got != InProgressMiss {
		t.Fatalf("expected in-progress miss the day after, got %q", got)
	}
	lateInDay := day("2024-03-25").Add(18 * time.Hour)
	if got := Bucketize(anchor, &lateInDay, nil, threshold, day("2024-06-01")); got != Meet {
		t.Fatalf("an actual on the deadline day meets, got %q", got)
	}
	if got := Bucketize(anchor, nil, &lateInDay, threshold, day("2024-02-01")); got != PredictedMeet {
		t.Fatalf("a plan on the deadline day predicts a meet, got %q", got)
	}
}

func TestFSALateActualIsMiss(t *testing.T) {
	st := study("A", nil, site(
		"study_ctn_actual_date", "2024-01-01",
		"study_fsa_actual_date", "2024-03-15",
	))
	o := Observe(st, mustLookup(FSA))
	if !o.Target.Equal(day("2024-03-04")) {
		t.Fatalf("unexpected FSA target %v", o.Target)
	}
	now := day("2024-04-01")
	if b := o.Bucket(now); b != Miss {
		t.Fatalf("expected miss, got %q", b)
	}
	if l := o.Light(now); l != Red {
		t.Fatalf("expected red, got %s", l)
	}
}

func TestPlannedAnchorWithoutDatesIsExcluded(t *testing.T) {
	st := study("B", nil, site("study_ctn_plan_date", "2024-06-01"))
	o := Observe(st, mustLookup(FSA))
	now := day("2024-08-01")
	if b := o.Bucket(now); b != Unclassified {
		t.Fatalf("expected unclassified, got %q", b)
	}
	if l := o.Light(now); l != NoLight {
		t.Fatalf("expected no light, got %s", l)
	}
}

func TestLeadingMilestoneUsesLeadingSite(t *testing.T) {
	header := []string{"study_number", "leading_site_or_not"}
	other := site("study_ctn_actual_date", "2024-01-01", "ec_approval_actual_date", "2023-12-01")
	lead := site("study_ctn_actual_date", "2024-01-01", "ec_approval_actual_date", "2024-01-20")
	lead.Leading = true
	st := study("L", header, other, lead)

	o := Observe(st, mustLookup(LeadingECApproval))
	if o.Actual == nil || !o.Actual.Equal(day("2024-01-20")) {
		t.Fatalf("expected leading site actual, got %v", o.Actual)
	}
	if o.Light(day("2024-02-01")) != Red {
		t.Fatalf("expected red for late leading approval")
	}

	noLead := study("N", header, site("study_ctn_actual_date", "2024-01-01"))
	if o := Observe(noLead, mustLookup(LeadingECApproval)); !o.Skipped {
		t.Fatalf("expected skip without a leading site")
	}

	noColumn := study("C", []string{"study_number"}, other)
	if o := Observe(noColumn, mustLookup(LeadingECApproval)); o.Skipped || !o.Actual.Equal(day("2023-12-01")) {
		t.Fatalf("expected first row when the leading column is absent, got %+v", o)
	}
}

func TestStudyMilestoneUsesEarliestDates(t *testing.T) {
	st := study("E", nil,
		site("study_ctn_actual_date", "2024-01-01", "study_fps_plan_date", "2024-04-01"),
		site("study_fps_actual_date", "2024-03-20", "study_fps_plan_date", "2024-03-01"),
		site("study_fps_actual_date", "2024-03-10"),
	)
	o := Observe(st, mustLookup(FPS))
	if !o.Actual.Equal(day("2024-03-10")) || !o.Plan.Equal(day("2024-03-01")) || o.Basis != BasisActual {
		t.Fatalf("unexpected observation %+v", o)
	}
}
