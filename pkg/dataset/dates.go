package dataset

import (
	"strings"
	"time"
)

const DateSuffix = "_date"

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"01/02/2006",
	"1/2/2006",
	"1/2/2006 15:04",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006.01.02",
	"20060102",
}

// nullTokens mirrors the values spreadsheet tooling exports for empty cells.
var nullTokens = func() map[string]struct{} {
	tokens := []string{
		"", "#n/a", "#n/a n/a", "#na", "-nan", "<na>", "n/a", "na", "nan", "nat",
		"null", "[null]", "none", "-1.#ind", "1.#ind", "-1.#qnan", "1.#qnan",
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}()

func IsNull(value string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// ParseDate coerces a cell to a UTC timestamp. Null tokens and values that
// match no known layout yield nil.
func ParseDate(value string) *time.Time {
	if IsNull(value) {
		return nil
	}
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

func IsDateColumn(name string) bool {
	return strings.HasSuffix(name, DateSuffix)
}
