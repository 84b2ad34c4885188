package milestone

import (
	"sort"
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

// Cohort summarises one milestone across a set of studies.
type Cohort struct {
	Milestone string `json:"milestone"`
	// Eligible counts studies with an anchor for which the milestone applies.
	// Eligible = Total + Unclassified.
	Eligible     int `json:"eligible"`
	Unclassified int `json:"unclassified"`
	// Total is the sum of the five bucket counts.
	Total            int                 `json:"total"`
	Counts           map[Bucket]int      `json:"counts"`
	Members          map[Bucket][]string `json:"members"`
	PercentNow       float64             `json:"percent_now"`
	PercentPredicted float64             `json:"percent_predicted"`
}

// Aggregate classifies every study against def and tallies the buckets.
// Percentages are in the 0-100 range and zero when Total is zero.
func Aggregate(studies []*dataset.Study, def Definition, now time.Time) Cohort {
	c := Cohort{
		Milestone: def.Name,
		Counts:    make(map[Bucket]int, len(Buckets)),
		Members:   make(map[Bucket][]string, len(Buckets)),
	}
	for _, b := range Buckets {
		c.Counts[b] = 0
		c.Members[b] = []string{}
	}

	for _, st := range studies {
		o := Observe(st, def)
		if !o.Determinable() {
			continue
		}
		c.Eligible++
		b := o.Bucket(now)
		if b == Unclassified {
			c.Unclassified++
			continue
		}
		c.Total++
		c.Counts[b]++
		c.Members[b] = append(c.Members[b], st.Number)
	}
	for _, b := range Buckets {
		sort.Strings(c.Members[b])
	}

	if c.Total > 0 {
		c.PercentNow = percent(c.Counts[Meet], c.Total)
		c.PercentPredicted = percent(c.Counts[Meet]+c.Counts[PredictedMeet], c.Total)
	}
	return c
}

// AggregateAll runs Aggregate for each named milestone of the catalogue.
// Unknown names are ignored.
func AggregateAll(studies []*dataset.Study, cat Catalog, names []string, now time.Time) []Cohort {
	out := make([]Cohort, 0, len(names))
	for _, name := range names {
		def, ok := cat.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, Aggregate(studies, def, now))
	}
	return out
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}
