package dataset

import (
	"testing"
	"time"

	"github.com/synaptica-ai/trialops/pkg/common/logger"
)

func silenceLogs() {
	logger.Silence()
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-15", "2024/03/15", "2024/3/15", "03/15/2024", "15-Mar-2024", "2024-03-15 00:00:00", "20240315"} {
		got := ParseDate(in)
		if got == nil || !got.Equal(want) {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestParseDateCoercesGarbageToMissing(t *testing.T) {
	for _, in := range []string{"", "  ", "NaT", "NULL", "[NULL]", "None", "tbd", "2024-13-45"} {
		if got := ParseDate(in); got != nil {
			t.Fatalf("%q: expected missing, got %v", in, got)
		}
	}
}

func TestNormalizeColumn(t *testing.T) {
	if got := NormalizeColumn("  Study CTN Plan Date "); got != "study_ctn_plan_date" {
		t.Fatalf("unexpected normalization %q", got)
	}
}
