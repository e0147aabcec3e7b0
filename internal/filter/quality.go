package filter

import (
	"strings"
)

// Length bounds for an acceptable word, inclusive.
const (
	MinWordLength = 3
	MaxWordLength = 12
)

// sensitivePrefixes are matched case-insensitively against the start of a word.
var sensitivePrefixes = []string{
	"fuck",
	"shit",
	"bitch",
	"cunt",
	"damn",
	"bastard",
	"whore",
	"slut",
	"nigg",
	"fag",
	"retard",
	"rape",
	"porn",
	"nazi",
	"dick",
	"cock",
	"pussy",
	"twat",
	"wank",
}

// IsAcceptable reports whether text may become a word in the daily set.
// Rules are checked in order and the first failing rule rejects.
func IsAcceptable(text string) bool {
	if len(text) < MinWordLength || len(text) > MaxWordLength {
		return false
	}

	first := text[0]
	if first >= 'A' && first <= 'Z' {
		return false
	}
	if first < 'a' || first > 'z' {
		return false
	}

	if strings.HasSuffix(text, "'s") {
		return false
	}

	if strings.ContainsAny(text, "0123456789") {
		return false
	}

	if hasSensitivePrefix(text) {
		return false
	}

	// Apostrophes, spaces and anything non-ascii are dropped here.
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c < 'a' || c > 'z') && c != '-' {
			return false
		}
	}

	return true
}

// Normalize lowercases and trims a candidate before it is checked.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func hasSensitivePrefix(text string) bool {
	lower := strings.ToLower(text)
	for _, prefix := range sensitivePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
