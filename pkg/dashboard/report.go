package dashboard

import (
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
	"github.com/synaptica-ai/trialops/pkg/hgrac"
	"github.com/synaptica-ai/trialops/pkg/milestone"
)

// CardMilestones are summarised as cohort cards.
var CardMilestones = []string{milestone.FSA, milestone.FPS, milestone.SA25, milestone.SA75}

type Report struct {
	DatasetID            string                 `json:"dataset_id,omitempty"`
	Now                  time.Time              `json:"now"`
	Filter               milestone.Filter       `json:"filter"`
	Studies              int                    `json:"studies"`
	CTN                  milestone.CTNStatus    `json:"ctn"`
	Cards                []milestone.Cohort     `json:"cards"`
	PastDue              []milestone.PastDue    `json:"past_due"`
	NextFiveWeeks        []milestone.RiskGroup  `json:"next_five_weeks"`
	BeyondFiveWeeks      []milestone.RiskGroup  `json:"beyond_five_weeks"`
	Details              []milestone.DetailRow  `json:"details"`
	SiteDurations        []milestone.FlowMedian `json:"site_durations"`
	LeadingSiteDurations []milestone.FlowMedian `json:"leading_site_durations"`
	HGRAC                []hgrac.Row            `json:"hgrac,omitempty"`
}

// BuildReport runs one evaluation pass over ds. The filter projection is
// applied first and feeds every section.
func BuildReport(ds *dataset.Dataset, cat milestone.Catalog, filter milestone.Filter, now time.Time) Report {
	view := filter.Apply(ds, cat, now)
	studies := view.Studies
	risks := milestone.ScanForward(studies, cat, now)

	r := Report{
		Now:                  now,
		Filter:               filter,
		Studies:              len(studies),
		CTN:                  milestone.SummarizeCTN(studies, now),
		Cards:                milestone.AggregateAll(studies, cat, CardMilestones, now),
		PastDue:              milestone.ScanPastDue(studies, cat, now),
		NextFiveWeeks:        risks.NextFiveWeeks,
		BeyondFiveWeeks:      risks.BeyondFiveWeeks,
		Details:              milestone.BuildDetails(studies, cat, now),
		SiteDurations:        milestone.MedianDurations(studies, milestone.SiteFlows, false),
		LeadingSiteDurations: milestone.MedianDurations(studies, milestone.LeadingSiteFlows, true),
	}
	if r.PastDue == nil {
		r.PastDue = []milestone.PastDue{}
	}
	return r
}
