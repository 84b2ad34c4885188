package dataset

import (
	"strings"
	"time"
)

// Columns that must be present for a dataset to be evaluated.
var RequiredColumns = []string{"study_number", "study_ctn_plan_date", "study_ctn_actual_date"}

type columnSet map[string]struct{}

// Site is one (study, site) row of the uploaded sheet.
type Site struct {
	StudyNumber string
	SiteNumber  string
	SiteName    string
	SSUS        string
	SiteStatus  string
	Leading     bool

	dates map[string]time.Time
}

func NewSite(studyNumber string, dates map[string]time.Time) *Site {
	if dates == nil {
		dates = make(map[string]time.Time)
	}
	return &Site{StudyNumber: studyNumber, dates: dates}
}

// Date returns the parsed value of a *_date column, or nil when the cell was
// empty, unparseable or the column does not exist.
func (s *Site) Date(column string) *time.Time {
	if s == nil {
		return nil
	}
	v, ok := s.dates[column]
	if !ok {
		return nil
	}
	return &v
}

func (s *Site) SetDate(column string, value time.Time) {
	s.dates[column] = value.UTC()
}

func (s *Site) HasSSUS() bool {
	return s.SSUS != ""
}

// Study groups the rows that share a study number. Study level attributes are
// taken from the first row.
type Study struct {
	Number    string
	TA        string
	Sourcing  string
	CTNActual *time.Time
	CTNPlan   *time.Time
	Sites     []*Site

	columns columnSet
}

func NewStudy(number string, columns []string, sites ...*Site) *Study {
	st := &Study{Number: number, columns: newColumnSet(columns), Sites: sites}
	if len(sites) > 0 {
		st.CTNActual = sites[0].Date("study_ctn_actual_date")
		st.CTNPlan = sites[0].Date("study_ctn_plan_date")
	}
	return st
}

func (s *Study) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

func (s *Study) HasColumns(names ...string) bool {
	for _, n := range names {
		if !s.HasColumn(n) {
			return false
		}
	}
	return true
}

// Dataset is an immutable snapshot of one uploaded sheet.
type Dataset struct {
	Studies []*Study
	Rows    int

	columns columnSet
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

func (d *Dataset) Columns() []string {
	out := make([]string, 0, len(d.columns))
	for c := range d.columns {
		out = append(out, c)
	}
	return out
}

func (d *Dataset) Study(number string) *Study {
	for _, st := range d.Studies {
		if st.Number == number {
			return st
		}
	}
	return nil
}

func (d *Dataset) StudyNumbers() []string {
	out := make([]string, 0, len(d.Studies))
	for _, st := range d.Studies {
		out = append(out, st.Number)
	}
	return out
}

// Project returns a dataset restricted to the studies accepted by keep.
// Studies are shared, not copied; neither dataset is modified.
func (d *Dataset) Project(keep func(*Study) bool) *Dataset {
	out := &Dataset{columns: d.columns}
	for _, st := range d.Studies {
		if keep(st) {
			out.Studies = append(out.Studies, st)
			out.Rows += len(st.Sites)
		}
	}
	return out
}

// New assembles a dataset from studies built in code.
func New(columns []string, studies ...*Study) *Dataset {
	cs := newColumnSet(columns)
	ds := &Dataset{columns: cs}
	for _, st := range studies {
		st.columns = cs
		ds.Studies = append(ds.Studies, st)
		ds.Rows += len(st.Sites)
	}
	return ds
}

func newColumnSet(columns []string) columnSet {
	cs := make(columnSet, len(columns))
	for _, c := range columns {
		cs[NormalizeColumn(c)] = struct{}{}
	}
	return cs
}

// NormalizeColumn folds a header cell to its canonical form: trimmed,
// lower-cased, spaces replaced by underscores.
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
