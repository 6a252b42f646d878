package services

import (
	"fmt"
	"strings"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

// stagePolicy defines the closed outcome vocabulary and the deterministic
// rubric for one funnel stage: how the target model is instructed, how the
// judge is told to classify the answer, and how a classified outcome maps to
// a 0-100 score.
type stagePolicy interface {
	Stage() models.FunnelStage
	// OutcomeVocabulary lists the accepted outcome labels, "absent" included.
	OutcomeVocabulary() []string
	// ScoreOutcome maps an outcome label to its base score. Second return is
	// false for labels outside the vocabulary.
	ScoreOutcome(outcome string) (float64, bool)
	// FallbackCap bounds the judge's self-reported score when its outcome
	// label is unrecognized.
	FallbackCap() float64
	// SystemInstruction is sent with the target-model call.
	SystemInstruction() string
	// RubricText is inserted into the judge prompt.
	RubricText() string
}

var stagePolicies = map[models.FunnelStage]stagePolicy{
	models.StageAwareness:     awarenessPolicy{},
	models.StageConsideration: considerationPolicy{},
	models.StageDecision:      decisionPolicy{},
	models.StageAdvocacy:      advocacyPolicy{},
}

func policyForStage(stage models.FunnelStage) (stagePolicy, error) {
	policy, ok := stagePolicies[stage]
	if !ok {
		return nil, fmt.Errorf("no scoring policy for stage %q", stage)
	}
	return policy, nil
}

func scoreFromVocabulary(scores map[string]float64, outcome string) (float64, bool) {
	score, ok := scores[strings.ToLower(strings.TrimSpace(outcome))]
	return score, ok
}

func vocabularyKeys(scores map[string]float64, order []string) []string {
	out := make([]string, 0, len(order))
	for _, key := range order {
		if _, ok := scores[key]; ok {
			out = append(out, key)
		}
	}
	return out
}

// Awareness: the outcome is the brand's rank in a five-item list. Scores
// decrease monotonically with rank distance from first; absent is always 0.
type awarenessPolicy struct{}

var awarenessScores = map[string]float64{
	"first":  100,
	"second": 75,
	"third":  50,
	"fourth": 30,
	"fifth":  15,
	"absent": 0,
}

func (awarenessPolicy) Stage() models.FunnelStage { return models.StageAwareness }

func (awarenessPolicy) OutcomeVocabulary() []string {
	return vocabularyKeys(awarenessScores, []string{"first", "second", "third", "fourth", "fifth", "absent"})
}

func (awarenessPolicy) ScoreOutcome(outcome string) (float64, bool) {
	return scoreFromVocabulary(awarenessScores, outcome)
}

func (awarenessPolicy) FallbackCap() float64 { return 50 }

func (awarenessPolicy) SystemInstruction() string {
	return "You are answering a consumer research question. Respond with a ranked list of exactly five items, " +
		"numbered 1 through 5, best first. List only the names, one per line, with no commentary before or after the list."
}

func (awarenessPolicy) RubricText() string {
	return `Determine the brand's position in the ranked list.
Outcome must be exactly one of: "first", "second", "third", "fourth", "fifth", "absent".
If the brand does not appear anywhere in the list, the outcome is "absent" and the score is 0.`
}

// Consideration: the outcome is the evaluative tone toward the brand. A mere
// mention with no evaluative content must not score in the top band.
type considerationPolicy struct{}

var considerationScores = map[string]float64{
	"positive":    92,
	"conditional": 70,
	"neutral":     45,
	"negative":    20,
	"absent":      0,
}

func (considerationPolicy) Stage() models.FunnelStage { return models.StageConsideration }

func (considerationPolicy) OutcomeVocabulary() []string {
	return vocabularyKeys(considerationScores, []string{"positive", "conditional", "neutral", "negative", "absent"})
}

func (considerationPolicy) ScoreOutcome(outcome string) (float64, bool) {
	return scoreFromVocabulary(considerationScores, outcome)
}

func (considerationPolicy) FallbackCap() float64 { return 85 }

func (considerationPolicy) SystemInstruction() string {
	return "You are answering a consumer research question comparing products in a category. Give a direct, substantive answer. " +
		"Avoid hedging language. If you lack evidence for a claim, state that explicitly instead of speculating."
}

func (considerationPolicy) RubricText() string {
	return `Classify the evaluative tone toward the brand.
Outcome must be exactly one of: "positive", "conditional", "neutral", "negative", "absent".
"positive" requires unambiguous positive evidence about the brand, not a bare mention.
A mention with no evaluative content is "neutral". If the brand is never mentioned, the outcome is "absent" and the score is 0.`
}

// Decision: the outcome is whether the answer explicitly recommends the
// brand. Anything short of an explicit "yes" is capped at 66.
type decisionPolicy struct{}

var decisionScores = map[string]float64{
	"yes":     90,
	"partial": 66,
	"unclear": 40,
	"no":      15,
	"absent":  0,
}

func (decisionPolicy) Stage() models.FunnelStage { return models.StageDecision }

func (decisionPolicy) OutcomeVocabulary() []string {
	return vocabularyKeys(decisionScores, []string{"yes", "partial", "unclear", "no", "absent"})
}

func (decisionPolicy) ScoreOutcome(outcome string) (float64, bool) {
	return scoreFromVocabulary(decisionScores, outcome)
}

func (decisionPolicy) FallbackCap() float64 { return 66 }

func (decisionPolicy) SystemInstruction() string {
	return "You are answering a purchase-decision question. Commit to a recommendation where the evidence supports one. " +
		"Avoid hedging language. If the evidence is insufficient, say so explicitly instead of speculating."
}

func (decisionPolicy) RubricText() string {
	return `Determine whether the answer recommends the brand.
Outcome must be exactly one of: "yes", "partial", "unclear", "no", "absent".
"yes" requires an explicit recommendation of the brand. A favorable mention without an explicit recommendation is "partial" at best.
If the brand is never mentioned, the outcome is "absent" and the score is 0.`
}

// Advocacy: the outcome is the sentiment label for customer advocacy. The top
// band requires explicit customer-trust evidence, never inferred.
type advocacyPolicy struct{}

var advocacyScores = map[string]float64{
	"recommend": 92,
	"caveat":    68,
	"neutral":   45,
	"negative":  20,
	"absent":    0,
}

func (advocacyPolicy) Stage() models.FunnelStage { return models.StageAdvocacy }

func (advocacyPolicy) OutcomeVocabulary() []string {
	return vocabularyKeys(advocacyScores, []string{"recommend", "caveat", "neutral", "negative", "absent"})
}

func (advocacyPolicy) ScoreOutcome(outcome string) (float64, bool) {
	return scoreFromVocabulary(advocacyScores, outcome)
}

func (advocacyPolicy) FallbackCap() float64 { return 85 }

func (advocacyPolicy) SystemInstruction() string {
	return "You are answering a question about customer satisfaction and loyalty. Base your answer on reported customer experience. " +
		"Avoid hedging language. If you have no evidence of customer sentiment, state that explicitly instead of speculating."
}

func (advocacyPolicy) RubricText() string {
	return `Classify how the answer portrays customer advocacy for the brand.
Outcome must be exactly one of: "recommend", "caveat", "neutral", "negative", "absent".
"recommend" requires explicit evidence of customer trust or advocacy in the answer; never infer it.
If the brand is never mentioned, the outcome is "absent" and the score is 0.`
}
