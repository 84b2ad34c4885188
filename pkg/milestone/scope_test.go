package milestone

import (
	"testing"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

var scopeHeader = []string{"study_number", "ssus", "site_status", "ssus_assignment_date", "study_fsa_actual_date"}

func TestSiteScopeRules(t *testing.T) {
	withSSUS := site()
	withSSUS.SSUS = "Jane"
	initiating := site()
	initiating.SiteStatus = "Initiating"
	assignedEarly := site("ssus_assignment_date", "2024-01-01", "study_fsa_actual_date", "2024-02-01")
	assignedSameDay := site("ssus_assignment_date", "2024-02-01", "study_fsa_actual_date", "2024-02-01")
	assignedLate := site("ssus_assignment_date", "2024-03-01", "study_fsa_actual_date", "2024-02-01")
	closed := site()
	closed.SiteStatus = "Closed"

	st := study("S", scopeHeader, withSSUS, initiating, assignedEarly, assignedSameDay, assignedLate, closed)
	got := SiteScope(st)
	if len(got) != 4 {
		t.Fatalf("expected 4 sites in scope, got %d", len(got))
	}
	for _, s := range got {
		if s == assignedLate || s == closed {
			t.Fatalf("unexpected site in scope: %+v", s)
		}
	}
}

func TestSiteScopeDefaultsToAllSites(t *testing.T) {
	closed := site()
	closed.SiteStatus = "Closed"
	st := study("S", []string{"study_number", "ssus", "site_status"}, closed, site())
	if got := SiteScope(st); len(got) != 2 {
		t.Fatalf("expected every site when membership columns are incomplete, got %d", len(got))
	}
}

func TestEmptyScopeSkipsFractionalMilestone(t *testing.T) {
	closed := site("study_ctn_actual_date", "2024-01-01", "site_sa_actual_date", "2024-02-01")
	closed.SiteStatus = "Closed"
	st := study("S", scopeHeader, closed)

	o := Observe(st, mustLookup(SA25))
	if !o.Skipped || o.Determinable() {
		t.Fatalf("expected skipped observation, got %+v", o)
	}
	c := Aggregate([]*dataset.Study{st}, mustLookup(SA25), day("2024-06-01"))
	if c.Eligible != 0 || c.Total != 0 {
		t.Fatalf("skipped study must not be counted: %+v", c)
	}
}
