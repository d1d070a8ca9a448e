// Package classify assigns a quality tier to a lead from its recorded answers.
// The decision table is deterministic and free of side effects; ties and
// boundary values favor the stricter classification.
package classify

import (
	"regexp"
	"strings"

	"leadflow/pkg/config"
	"leadflow/pkg/extract"
)

// Tier is the classification outcome summarizing lead quality.
type Tier string

const (
	// TierInvalid marks gibberish or placeholder answers.
	TierInvalid Tier = "Invalid"
	// TierHot marks a qualified lead: real budget above the hot threshold and a
	// near-term timeline.
	TierHot Tier = "Hot"
	// TierCold is the default for everything else.
	TierCold Tier = "Cold"
)

// Hot thresholds: budget strictly greater than the floor, timeline within
// (0, HotTimelineMaxMonths] months.
const (
	HotBudgetFloor       = 1_000_000
	HotTimelineMaxMonths = 6
)

// Answer keys with parsing semantics attached.
const (
	KeyBudget   = "budget"
	KeyTimeline = "timeline"
)

var placeholderRe = regexp.MustCompile(`lol|asdf|qwer|zxcv|test|dummy`)

// Classify applies the three-tier decision table over the accumulated answers.
// First match wins: Invalid on gibberish or placeholder tokens anywhere, Hot on
// a large budget with a near-term timeline, Cold otherwise.
func Classify(answers map[string]string, script *config.Script) Tier {
	if extract.IsGibberish(answers[KeyBudget]) || extract.IsGibberish(answers[KeyTimeline]) {
		return TierInvalid
	}

	joined := make([]string, 0, len(answers))
	for _, key := range script.QuestionKeys() {
		if v, ok := answers[key]; ok {
			joined = append(joined, v)
		}
	}
	if placeholderRe.MatchString(strings.ToLower(strings.Join(joined, " "))) {
		return TierInvalid
	}

	budgetStr := strings.ToLower(answers[KeyBudget])
	timelineStr := strings.ToLower(answers[KeyTimeline])
	budget := extract.ParseBudget(answers[KeyBudget])
	timeline := extract.ParseTimeline(answers[KeyTimeline])

	if budget > HotBudgetFloor &&
		timeline > 0 && timeline <= HotTimelineMaxMonths &&
		!strings.Contains(budgetStr, "not sure") &&
		!strings.Contains(timelineStr, "not sure") {
		return TierHot
	}

	return TierCold
}
