package milestone

import (
	"time"

	"github.com/synaptica-ai/trialops/pkg/dataset"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(s string) *time.Time {
	t := day(s)
	return &t
}

// site builds a row from column/date pairs.
func site(kv ...string) *dataset.Site {
	dates := make(map[string]time.Time, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		dates[kv[i]] = day(kv[i+1])
	}
	return dataset.NewSite("", dates)
}

// study groups sites under number. CTN dates are read from the first site.
func study(number string, columns []string, sites ...*dataset.Site) *dataset.Study {
	if len(sites) == 0 {
		sites = []*dataset.Site{site()}
	}
	for _, s := range sites {
		s.StudyNumber = number
	}
	return dataset.NewStudy(number, columns, sites...)
}

func mustLookup(name string) Definition {
	def, ok := DefaultCatalog().Lookup(name)
	if !ok {
		panic("unknown milestone " + name)
	}
	return def
}

func only(names ...string) Catalog {
	var cat Catalog
	for _, n := range names {
		cat.Definitions = append(cat.Definitions, mustLookup(n))
	}
	return cat
}
