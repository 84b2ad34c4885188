package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/dashboard"
	"github.com/synaptica-ai/trialops/pkg/dataset"
	"github.com/synaptica-ai/trialops/pkg/milestone"
)

func main() {
	file := flag.String("file", "", "milestone CSV to evaluate (required)")
	nowFlag := flag.String("now", "", "evaluation date, YYYY-MM-DD or RFC3339 (default: current time)")
	definitions := flag.String("definitions", "", "YAML milestone definitions (default: built-in)")
	studies := flag.String("study", "", "comma separated study numbers")
	tas := flag.String("ta", "", "comma separated therapeutic areas")
	sourcings := flag.String("sourcing", "", "comma separated sourcing strategies")
	ctnGroups := flag.String("ctn-group", "", "comma separated CTN groups")
	due := flag.Bool("due-next-5w", false, "only studies with an open milestone due in the next 5 weeks")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	logger.Init()
	if *verbose {
		logger.Log.SetOutput(os.Stderr)
	} else {
		logger.Silence()
	}

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*file, *nowFlag, *definitions, filterFrom(*studies, *tas, *sourcings, *ctnGroups, *due)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, nowRaw, definitions string, filter milestone.Filter) error {
	now := time.Now().UTC()
	if nowRaw != "" {
		t, err := dashboard.ParseNow(nowRaw)
		if err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
		now = t
	}

	catalog, err := milestone.LoadCatalog(definitions)
	if err != nil {
		return fmt.Errorf("loading definitions: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := dataset.Load(f)
	if err != nil {
		return err
	}

	report := dashboard.BuildReport(ds, catalog, filter, now)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func filterFrom(studies, tas, sourcings, ctnGroups string, due bool) milestone.Filter {
	f := milestone.Filter{
		Studies:          split(studies),
		TAs:              split(tas),
		Sourcings:        split(sourcings),
		DueNextFiveWeeks: due,
	}
	for _, raw := range split(ctnGroups) {
		if g, ok := milestone.ParseCTNGroup(raw); ok {
			f.CTNGroups = append(f.CTNGroups, g)
		} else {
			fmt.Fprintf(os.Stderr, "ignoring unknown CTN group %q\n", raw)
		}
	}
	return f
}

func split(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
