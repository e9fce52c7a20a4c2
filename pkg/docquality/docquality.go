// Package docquality scores docstring completeness and generates synthetic
// stand-in docstrings for undocumented functions.
package docquality

import (
	"fmt"
	"strings"
)

// Tier buckets a documentation score.
type Tier string

const (
	TierHigh   Tier = "high_quality"
	TierMedium Tier = "medium_quality"
	TierLow    Tier = "low_quality"
)

// Score term weights and the expected docstring length, in tokens.
const (
	weightParamCoverage  = 0.45
	weightReturnCoverage = 0.25
	weightLength         = 0.20
	weightExample        = 0.10

	defaultExpectedTokens = 60
)

// Result is a scored docstring with its component terms.
type Result struct {
	Score          float64 `json:"score"`
	Tier           Tier    `json:"tier"`
	ParamCoverage  float64 `json:"param_coverage"`
	ReturnCoverage float64 `json:"return_coverage"`
	LengthScore    float64 `json:"doc_length_score"`
	ExampleBonus   float64 `json:"example_bonus"`
}

// Scorer evaluates documentation quality.
type Scorer struct {
	expectedTokens int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithExpectedTokens overrides the expected docstring length used by the
// length term.
func WithExpectedTokens(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.expectedTokens = n
		}
	}
}

// New creates a scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{expectedTokens: defaultExpectedTokens}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the weighted documentation score for a function's
// docstring. Parameter coverage is the fraction of parameter names
// textually present in the lower-cased docstring (1.0 with no
// parameters); return coverage is binary on a "return"/"returns" mention;
// the length term is token count over the expected length, capped to
// [0,1]; the example term is binary on an example marker.
func (s *Scorer) Score(funcName string, params []string, docstring string) Result {
	lower := strings.ToLower(docstring)

	paramCov := 1.0
	if len(params) > 0 {
		covered := 0
		for _, p := range params {
			if p != "" && strings.Contains(lower, strings.ToLower(p)) {
				covered++
			}
		}
		paramCov = float64(covered) / float64(len(params))
	}

	returnCov := 0.0
	if strings.Contains(lower, "return") {
		returnCov = 1.0
	}

	exampleBonus := 0.0
	if strings.Contains(lower, "example") || strings.Contains(docstring, "::") || strings.Contains(docstring, "```") {
		exampleBonus = 1.0
	}

	lengthScore := float64(len(strings.Fields(docstring))) / float64(s.expectedTokens)
	if lengthScore > 1 {
		lengthScore = 1
	}

	score := weightParamCoverage*paramCov +
		weightReturnCoverage*returnCov +
		weightLength*lengthScore +
		weightExample*exampleBonus

	return Result{
		Score:          score,
		Tier:           tierOf(score),
		ParamCoverage:  paramCov,
		ReturnCoverage: returnCov,
		LengthScore:    lengthScore,
		ExampleBonus:   exampleBonus,
	}
}

func tierOf(score float64) Tier {
	switch {
	case score >= 0.7:
		return TierHigh
	case score >= 0.4:
		return TierMedium
	default:
		return TierLow
	}
}

// SyntheticTemplate produces a templated stand-in docstring for an
// undocumented function: signature line plus placeholder argument and
// return entries, and a short usage example when the function name is
// known. Records carrying it must be flagged synthetic.
func SyntheticTemplate(funcName string, params []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s(%s)\n\n", funcName, strings.Join(params, ", "))
	b.WriteString("Briefly describe what this function does.\n")
	b.WriteString("Arguments:\n")
	for _, p := range params {
		fmt.Fprintf(&b, "- %s: description\n", p)
	}
	b.WriteString("Returns:\n- description")

	if funcName != "" {
		exampleArgs := make([]string, 0, 2)
		for _, p := range params {
			exampleArgs = append(exampleArgs, p+"=...")
			if len(exampleArgs) == 2 {
				break
			}
		}
		fmt.Fprintf(&b, "\n\nExamples:\n>>> %s(%s)\n", funcName, strings.Join(exampleArgs, ", "))
	}

	return b.String()
}
