package redaction

import "strings"

// Redactor masks detected sensitive spans with type-labeled
// placeholders, e.g. "<EMAIL_ADDRESS>". Placeholders contain no digits
// or address characters, so reapplying Redact finds nothing new:
// redaction is idempotent.
type Redactor struct {
	analyzer *Analyzer
	onMatch  func(entity string)
}

func NewRedactor() *Redactor {
	return &Redactor{analyzer: NewAnalyzer()}
}

// OnMatch registers a callback invoked once per redacted span. Used for
// instrumentation; must be set before the redactor is shared.
func (r *Redactor) OnMatch(fn func(entity string)) {
	r.onMatch = fn
}

func (r *Redactor) Redact(text string) string {
	matches := r.analyzer.Analyze(text)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	cursor := 0
	for _, m := range matches {
		if r.onMatch != nil {
			r.onMatch(m.Entity)
		}
		b.WriteString(text[cursor:m.Start])
		b.WriteString("<")
		b.WriteString(m.Entity)
		b.WriteString(">")
		cursor = m.End
	}
	b.WriteString(text[cursor:])
	return b.String()
}
