package milestone

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LeadingECApproval = "Leading EC Approval"
	LeadingContract   = "Leading Contract"
	CountryPackage    = "Country Package"
	CountryContract   = "Country Contract"
	IMP               = "IMP"
	Facility          = "Facility"
	HGRAC             = "HGRAC"
	FSA               = "FSA"
	FPS               = "FPS"
	SA25              = "25% SA"
	SA75              = "75% SA"
)

// PriorityOrder ranks milestones when several are reported for one study.
var PriorityOrder = []string{FSA, FPS, SA25, SA75, IMP, Facility, HGRAC, LeadingECApproval, LeadingContract, CountryPackage}

// DependentFPSReason is raised when FSA is overdue or FPS is imminent and no
// site has been activated yet.
const DependentFPSReason = "FSA not yet complete, FPS may be impacted"

// Definition describes how one milestone is read from the sheet and judged
// against the CTN anchor.
type Definition struct {
	Name         string  `yaml:"name" json:"name"`
	ActualColumn string  `yaml:"actual_column" json:"actual_column"`
	PlanColumn   string  `yaml:"plan_column" json:"plan_column"`
	OffsetWeeks  float64 `yaml:"offset_weeks" json:"offset_weeks"`
	Fraction     float64 `yaml:"fraction,omitempty" json:"fraction,omitempty"`
	Leading      bool    `yaml:"leading,omitempty" json:"leading,omitempty"`
	PastDueScan  bool    `yaml:"past_due_scan" json:"past_due_scan"`
	ForwardScan  bool    `yaml:"forward_scan" json:"forward_scan"`
	RiskReason   string  `yaml:"risk_reason,omitempty" json:"risk_reason,omitempty"`
}

func (d Definition) Fractional() bool {
	return d.Fraction > 0
}

// Reason is the forward-risk message for a plan that overshoots the target.
func (d Definition) Reason() string {
	if d.RiskReason != "" {
		return d.RiskReason
	}
	return fmt.Sprintf("%s plan later than %s", d.Name, TargetLabel(d.OffsetWeeks))
}

// TargetLabel renders an offset as it appears on the dashboard, e.g. CTN,
// CTN-12wks, CTN+8.5wks.
func TargetLabel(offsetWeeks float64) string {
	if offsetWeeks == 0 {
		return "CTN"
	}
	sign := "+"
	if offsetWeeks < 0 {
		sign = "-"
	}
	return fmt.Sprintf("CTN%s%swks", sign, formatWeeks(math.Abs(offsetWeeks)))
}

func formatWeeks(w float64) string {
	s := fmt.Sprintf("%.1f", w)
	return strings.TrimSuffix(s, ".0")
}

type Catalog struct {
	Definitions []Definition `yaml:"milestones" json:"milestones"`
}

func (c Catalog) Lookup(name string) (Definition, bool) {
	for _, d := range c.Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

func (c Catalog) Names() []string {
	out := make([]string, 0, len(c.Definitions))
	for _, d := range c.Definitions {
		out = append(out, d.Name)
	}
	return out
}

func (c Catalog) Validate() error {
	if len(c.Definitions) == 0 {
		return errors.New("no milestones configured")
	}
	seen := make(map[string]struct{}, len(c.Definitions))
	for _, d := range c.Definitions {
		if strings.TrimSpace(d.Name) == "" {
			return errors.New("milestone name required")
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("duplicate milestone %q", d.Name)
		}
		seen[d.Name] = struct{}{}
		if d.ActualColumn == "" || d.PlanColumn == "" {
			return fmt.Errorf("milestone %q: actual and plan columns required", d.Name)
		}
		if d.Fraction < 0 || d.Fraction > 1 {
			return fmt.Errorf("milestone %q: fraction must be within (0,1]", d.Name)
		}
		if d.Fractional() && d.Leading {
			return fmt.Errorf("milestone %q: fractional milestones cannot be leading-site only", d.Name)
		}
	}
	return nil
}

// LoadCatalog reads milestone definitions from YAML. An empty path yields the
// default catalogue.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}

	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parsing milestone definitions: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func DefaultCatalog() Catalog {
	return Catalog{Definitions: []Definition{
		{Name: LeadingECApproval, ActualColumn: "ec_approval_actual_date", PlanColumn: "ec_approval_plan_date", OffsetWeeks: 0, Leading: true, PastDueScan: true, ForwardScan: true},
		{Name: LeadingContract, ActualColumn: "contract_signoff_actual_date", PlanColumn: "contract_signoff_plan_date", OffsetWeeks: 0, Leading: true, PastDueScan: true, ForwardScan: true},
		{Name: CountryPackage, ActualColumn: "country_package_ready_actual_date", PlanColumn: "country_package_ready_plan_date", OffsetWeeks: -12, PastDueScan: true, ForwardScan: true},
		{Name: CountryContract, ActualColumn: "main_contract_tmpl_actual_date", PlanColumn: "main_contract_tmpl_plan_date", OffsetWeeks: -12},
		{Name: IMP, ActualColumn: "study_imp_ready_actual_date", PlanColumn: "study_imp_ready_plan_date", OffsetWeeks: 8.5, PastDueScan: true, ForwardScan: true,
			RiskReason: "IMP plan later than CTN+8.5wks, FSA and FPS may be impacted"},
		{Name: Facility, ActualColumn: "study_sfr_actual_date", PlanColumn: "study_sfr_plan_date", OffsetWeeks: 8.5, PastDueScan: true, ForwardScan: true,
			RiskReason: "Facility plan later than CTN+8.5wks, FSA and FPS may be impacted"},
		{Name: HGRAC, ActualColumn: "study_hia_actual_date", PlanColumn: "study_hia_plan_date", OffsetWeeks: 8.5, PastDueScan: true, ForwardScan: true,
			RiskReason: "HGRAC plan later than CTN+8.5wks, FSA and FPS may be impacted"},
		{Name: FSA, ActualColumn: "study_fsa_actual_date", PlanColumn: "study_fsa_plan_date", OffsetWeeks: 9, PastDueScan: true, ForwardScan: true},
		{Name: FPS, ActualColumn: "study_fps_actual_date", PlanColumn: "study_fps_plan_date", OffsetWeeks: 12, PastDueScan: true, ForwardScan: true},
		{Name: SA25, ActualColumn: "site_sa_actual_date", PlanColumn: "site_sa_plan_date", OffsetWeeks: 13, Fraction: 0.25, PastDueScan: true, ForwardScan: true},
		{Name: SA75, ActualColumn: "site_sa_actual_date", PlanColumn: "site_sa_plan_date", OffsetWeeks: 19, Fraction: 0.75, PastDueScan: true, ForwardScan: true},
	}}
}

func priority(name string) int {
	for i, n := range PriorityOrder {
		if n == name {
			return i
		}
	}
	return 99
}
