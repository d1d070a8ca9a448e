// Package extract parses free-text qualification answers into normalized
// numeric values and screens out gibberish input. All functions are pure:
// regex-first pattern matches with lenient fallbacks, no I/O.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	croreRe   = regexp.MustCompile(`([\d.]+)\s*crore`)
	lakhRe    = regexp.MustCompile(`([\d.]+)\s*(lakh|lakhs|l|lac)`)
	bareNumRe = regexp.MustCompile(`\d+`)

	monthRe = regexp.MustCompile(`(\d+)\s*months?`)
	yearRe  = regexp.MustCompile(`(\d+)\s*years?`)

	nonAlnumRe = regexp.MustCompile(`^[^a-zA-Z0-9]+$`)
	// Same letter repeated 5+ times in a row. RE2 has no backreferences, so
	// ([a-zA-Z])\1{4,} is spelled out as a per-letter alternation.
	repeatRe   = regexp.MustCompile(`a{5,}|b{5,}|c{5,}|d{5,}|e{5,}|f{5,}|g{5,}|h{5,}|i{5,}|j{5,}|k{5,}|l{5,}|m{5,}|n{5,}|o{5,}|p{5,}|q{5,}|r{5,}|s{5,}|t{5,}|u{5,}|v{5,}|w{5,}|x{5,}|y{5,}|z{5,}|A{5,}|B{5,}|C{5,}|D{5,}|E{5,}|F{5,}|G{5,}|H{5,}|I{5,}|J{5,}|K{5,}|L{5,}|M{5,}|N{5,}|O{5,}|P{5,}|Q{5,}|R{5,}|S{5,}|T{5,}|U{5,}|V{5,}|W{5,}|X{5,}|Y{5,}|Z{5,}`)
	denylistRe = regexp.MustCompile(`(?i)asdf|qwer|zxcv|lol|test|dummy`)
)

// Numeral unit multipliers. 1 crore = 10,000,000; 1 lakh = 100,000.
const (
	croreValue = 10_000_000
	lakhValue  = 100_000
)

// unsure reports whether the text declares the answer unknown.
func unsure(s string) bool {
	return strings.Contains(s, "not sure") || strings.Contains(s, "unknown")
}

// ParseBudget extracts a non-negative budget amount from free text.
// Recognizes crore and lakh units; crore wins when both match. Falls back to
// the first bare digit run. Unparseable input yields 0.
func ParseBudget(text string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(text), ",", ""))
	if s == "" || unsure(s) {
		return 0
	}

	if m := croreRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n * croreValue
		}
	}
	if m := lakhRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil {
			return n * lakhValue
		}
	}
	if m := bareNumRe.FindString(s); m != "" {
		if n, err := strconv.ParseFloat(m, 64); err == nil {
			return n
		}
	}
	return 0
}

// ParseTimeline extracts a non-negative number of months from free text.
// "<N> year(s)" overrides "<N> month(s)" when both are present.
// Unparseable input yields 0.
func ParseTimeline(text string) int {
	s := strings.ToLower(text)
	if s == "" || unsure(s) {
		return 0
	}

	months := 0
	if m := monthRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			months = n
		}
	}
	if m := yearRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			months = n * 12
		}
	}
	return months
}

// IsGibberish reports whether an answer is non-meaningful: empty, too short,
// all non-alphanumeric, a letter repeated 5+ times in a row, or containing a
// known placeholder token.
func IsGibberish(text string) bool {
	if text == "" {
		return true
	}
	if len(text) < 2 {
		return true
	}
	if nonAlnumRe.MatchString(text) {
		return true
	}
	if repeatRe.MatchString(text) {
		return true
	}
	return denylistRe.MatchString(text)
}
