package milestone

import "github.com/synaptica-ai/trialops/pkg/dataset"

const initiatingStatus = "Initiating"

var scopeColumns = []string{"ssus", "site_status", "ssus_assignment_date", "study_fsa_actual_date"}

// SiteScope returns the sites of st eligible for fractional activation
// milestones. Without the membership columns every site is eligible.
func SiteScope(st *dataset.Study) []*dataset.Site {
	if !st.HasColumns(scopeColumns...) {
		return st.Sites
	}
	out := make([]*dataset.Site, 0, len(st.Sites))
	for _, s := range st.Sites {
		if inScope(s) {
			out = append(out, s)
		}
	}
	return out
}

func inScope(s *dataset.Site) bool {
	if s.HasSSUS() {
		return true
	}
	if s.SiteStatus == initiatingStatus {
		return true
	}
	assigned := s.Date("ssus_assignment_date")
	fsa := s.Date("study_fsa_actual_date")
	return assigned != nil && fsa != nil && !assigned.After(*fsa)
}
