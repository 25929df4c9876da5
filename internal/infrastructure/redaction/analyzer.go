package redaction

import (
	"regexp"
	"sort"
)

// Match is one detected sensitive span, in byte offsets.
type Match struct {
	Entity string
	Start  int
	End    int
}

type recognizer struct {
	entity   string
	pattern  *regexp.Regexp
	group    int               // capture group to redact; 0 = whole match
	validate func(string) bool // optional post-validation of the span
}

// Analyzer scans text with an ordered set of pattern recognizers.
// Earlier recognizers win overlap conflicts. Stateless after
// construction and safe for concurrent use.
type Analyzer struct {
	recognizers []recognizer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{recognizers: []recognizer{
		{
			entity:  "EMAIL_ADDRESS",
			pattern: regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		},
		{
			entity:  "URL",
			pattern: regexp.MustCompile(`https?://[^\s<>"']+`),
		},
		{
			entity:  "IP_ADDRESS",
			pattern: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		},
		{
			entity:  "US_SSN",
			pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			entity:  "IBAN_CODE",
			pattern: regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
		},
		{
			entity:   "CREDIT_CARD",
			pattern:  regexp.MustCompile(`\b(?:\d[ \-]?){13,19}\b`),
			validate: luhnValid,
		},
		{
			entity:   "PHONE_NUMBER",
			pattern:  regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{1,4}\)[\s.\-]?)?\d{2,4}(?:[\s.\-]?\d{2,4}){1,3}`),
			validate: hasMinDigits(9),
		},
		{
			entity:  "PERSON",
			pattern: regexp.MustCompile(`(?:[Mm]y name is|I am|I'm|[Tt]his is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`),
			group:   1,
		},
	}}
}

// Analyze returns non-overlapping matches ordered by position.
func (a *Analyzer) Analyze(text string) []Match {
	candidates := make([]Match, 0, 8)
	for _, rec := range a.recognizers {
		for _, loc := range rec.pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2*rec.group], loc[2*rec.group+1]
			if start < 0 || end <= start {
				continue
			}
			if rec.validate != nil && !rec.validate(text[start:end]) {
				continue
			}
			candidates = append(candidates, Match{Entity: rec.entity, Start: start, End: end})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	out := make([]Match, 0, len(candidates))
	lastEnd := -1
	for _, m := range candidates {
		if m.Start < lastEnd {
			continue
		}
		out = append(out, m)
		lastEnd = m.End
	}
	return out
}

func luhnValid(span string) bool {
	digits := make([]int, 0, len(span))
	for _, r := range span {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func hasMinDigits(min int) func(string) bool {
	return func(span string) bool {
		count := 0
		for _, r := range span {
			if r >= '0' && r <= '9' {
				count++
			}
		}
		return count >= min
	}
}
