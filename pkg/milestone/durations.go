package milestone

import (
	"math"
	"sort"
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

// Flow is a process step measured between two date columns of the same row.
type Flow struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

var SiteFlows = []Flow{
	{Name: "CTN-GCP", Start: "study_ctn_actual_date", End: "site_gcp_actual_date"},
	{Name: "CTN-EC", Start: "study_ctn_actual_date", End: "ec_approval_actual_date"},
	{Name: "CTN-Contract", Start: "study_ctn_actual_date", End: "contract_signoff_actual_date"},
	{Name: "CTN-SA", Start: "study_ctn_actual_date", End: "site_sa_actual_date"},
	{Name: "GCP-EC", Start: "site_gcp_actual_date", End: "ec_approval_actual_date"},
	{Name: "GCP-Contract", Start: "site_gcp_actual_date", End: "contract_signoff_actual_date"},
	{Name: "Comm Ltr-HGRAC", Start: "study_hia_actual_date", End: "comm_ltr_obt_actual_date"},
}

var LeadingSiteFlows = []Flow{
	{Name: "Package-Country to Site", Start: "country_package_ready_actual_date", End: "site_package_actual_date"},
	{Name: "Site package-GCP", Start: "site_package_actual_date", End: "site_gcp_actual_date"},
	{Name: "GCP-EC", Start: "site_gcp_actual_date", End: "ec_approval_actual_date"},
	{Name: "GCP-Contract", Start: "site_gcp_actual_date", End: "contract_signoff_actual_date"},
	{Name: "Comm Ltr-CTN", Start: "study_ctn_actual_date", End: "comm_ltr_obt_actual_date"},
	{Name: "CTN-SA", Start: "study_ctn_actual_date", End: "site_sa_actual_date"},
}

type FlowMedian struct {
	Flow       string `json:"flow"`
	MedianDays *int   `json:"median_days"`
	Samples    int    `json:"samples"`
}

// MedianDurations computes the median day count of every flow over the sites
// of studies. With leadingOnly set only leading sites contribute.
func MedianDurations(studies []*dataset.Study, flows []Flow, leadingOnly bool) []FlowMedian {
	var sites []*dataset.Site
	for _, st := range studies {
		if leadingOnly {
			sites = append(sites, leadingSites(st)...)
		} else {
			sites = append(sites, st.Sites...)
		}
	}

	out := make([]FlowMedian, 0, len(flows))
	for _, f := range flows {
		var days []int
		for _, s := range sites {
			start, end := s.Date(f.Start), s.Date(f.End)
			if start == nil || end == nil {
				continue
			}
			days = append(days, daysBetween(*start, *end))
		}
		out = append(out, FlowMedian{Flow: f.Name, MedianDays: median(days), Samples: len(days)})
	}
	return out
}

func median(values []int) *int {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	m := float64(sorted[mid])
	if len(sorted)%2 == 0 {
		m = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	v := int(m)
	return &v
}

// daysBetween returns whole days from a to b, floored.
func daysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

func roundWeeks(days int) float64 {
	return math.Round(float64(days)/7*10) / 10
}
