package redaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactMasksEntities(t *testing.T) {
	r := NewRedactor()

	cases := map[string]struct {
		in   string
		want string
	}{
		"email": {
			in:   "Contact john.doe@example.com for details.",
			want: "Contact <EMAIL_ADDRESS> for details.",
		},
		"url": {
			in:   "See https://internal.example.com/report?id=7 now.",
			want: "See <URL> now.",
		},
		"ip": {
			in:   "The server at 192.168.1.10 is down.",
			want: "The server at <IP_ADDRESS> is down.",
		},
		"ssn": {
			in:   "SSN 123-45-6789 on file.",
			want: "SSN <US_SSN> on file.",
		},
		"credit card": {
			in:   "Card 4111 1111 1111 1111 was charged.",
			want: "Card <CREDIT_CARD> was charged.",
		},
		"phone": {
			in:   "Call +1 415 555 0123 tomorrow.",
			want: "Call <PHONE_NUMBER> tomorrow.",
		},
		"person": {
			in:   "Hello, my name is Jane Smith and I have a question.",
			want: "Hello, my name is <PERSON> and I have a question.",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Redact(tc.in))
		})
	}
}

func TestRedactIsIdempotent(t *testing.T) {
	r := NewRedactor()

	inputs := []string{
		"Mail john@example.com or call +1 415 555 0123.",
		"my name is John Doe, SSN 123-45-6789, card 4111 1111 1111 1111",
		"plain text with no sensitive content",
	}
	for _, in := range inputs {
		once := r.Redact(in)
		assert.Equal(t, once, r.Redact(once), "input %q", in)
	}
}

func TestRedactLeavesCleanTextAlone(t *testing.T) {
	r := NewRedactor()

	clean := []string{
		"What is the total amount on the invoice?",
		"The meeting moved to 2024-03-01.",
		"Chapter 7, section 3, page 12.",
	}
	for _, in := range clean {
		assert.Equal(t, in, r.Redact(in))
	}
}

func TestRedactRejectsNonLuhnCardNumbers(t *testing.T) {
	r := NewRedactor()

	// 16 digits failing the Luhn check must not be masked as a card.
	out := r.Redact("Reference 1234 5678 9012 3456 is an order id.")
	assert.NotContains(t, out, "<CREDIT_CARD>")
}

func TestRedactOverlapPrefersEarlierRecognizer(t *testing.T) {
	r := NewRedactor()

	// The email contains digit runs a later recognizer could claim; the
	// whole address must win as one span.
	out := r.Redact("Reach 123456789@example.com today.")
	assert.Equal(t, "Reach <EMAIL_ADDRESS> today.", out)
}

func TestRedactCountsMatches(t *testing.T) {
	r := NewRedactor()
	seen := map[string]int{}
	r.OnMatch(func(entity string) { seen[entity]++ })

	r.Redact("Mail a@b.io and c@d.io, server 10.0.0.1.")
	require.Equal(t, 2, seen["EMAIL_ADDRESS"])
	require.Equal(t, 1, seen["IP_ADDRESS"])
}
