package summary

import (
	"regexp"
	"strings"
)

// Sections is a best-effort split of the summary markdown for dashboard cards.
// Models do not always follow the requested layout, so any field may be empty.
type Sections struct {
	Income      string   `json:"income,omitempty"`
	Expenses    string   `json:"expenses,omitempty"`
	Savings     string   `json:"savings,omitempty"`
	SavingsRate string   `json:"savingsRate,omitempty"`
	Breakdown   []string `json:"breakdown"`
	Suggestions []string `json:"suggestions"`
}

var (
	incomePrefix   = regexp.MustCompile(`(?i).*total income:\s*`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
	bulletPrefix   = regexp.MustCompile(`^[-–]\s*`)
	bulletLine     = regexp.MustCompile(`^[-–]\s`)
	numberedLine   = regexp.MustCompile(`^\d+\.\s`)
	emphasis       = regexp.MustCompile(`\*([^*]+)\*`)
)

func clean(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return emphasis.ReplaceAllString(s, "$1")
}

func ParseSections(raw string) Sections {
	out := Sections{Breakdown: []string{}, Suggestions: []string{}}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "total income"):
			out.Income = clean(incomePrefix.ReplaceAllString(line, ""))
		case strings.Contains(lower, "total expenses"):
			out.Expenses = clean(numberedPrefix.ReplaceAllString(line, ""))
		case strings.Contains(lower, "total savings"):
			out.Savings = clean(line)
		case strings.Contains(lower, "savings rate"):
			out.SavingsRate = clean(line)
		case bulletLine.MatchString(line):
			item := bulletPrefix.ReplaceAllString(line, "")
			if !strings.Contains(strings.ToLower(item), "savings:") {
				out.Breakdown = append(out.Breakdown, clean(item))
			}
		case numberedLine.MatchString(line):
			out.Suggestions = append(out.Suggestions, clean(line))
		}
	}
	return out
}
