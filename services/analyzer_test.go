package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCaller scripts a ModelCaller with a plain function.
type stubCaller struct {
	fn func(ctx context.Context, modelName, prompt, systemInstruction string) (models.RawModelResponse, error)
}

func (s *stubCaller) Call(ctx context.Context, modelName, prompt, systemInstruction string) (models.RawModelResponse, error) {
	return s.fn(ctx, modelName, prompt, systemInstruction)
}

func fixedCaller(text string, elapsedMs int64) *stubCaller {
	return &stubCaller{fn: func(context.Context, string, string, string) (models.RawModelResponse, error) {
		return models.RawModelResponse{Text: text, ElapsedMs: elapsedMs}, nil
	}}
}

func failingCaller(err error) *stubCaller {
	return &stubCaller{fn: func(context.Context, string, string, string) (models.RawModelResponse, error) {
		return models.RawModelResponse{ElapsedMs: 5}, err
	}}
}

func judgmentJSON(outcome string, score float64) string {
	return fmt.Sprintf(`{
  "outcome": %q,
  "score": %v,
  "confidence": 85,
  "rationale": "scripted",
  "sentiment": {
    "overall": "positive",
    "confidence": 80,
    "distribution": {"positive": 60, "neutral": 30, "negative": 10, "strongly_positive": 20}
  },
  "competitors": [{"name": "RivalSoft", "normalized_name": "rivalsoft", "confidence_score": 90, "source_domains": []}],
  "citations": [{"domain": "example.com", "authority_score": 70, "source_type": "secondary", "relevance": "review", "reasoning": "cited"}]
}`, outcome, score)
}

func newTestAnalyzer(target, judge ModelCaller) *Analyzer {
	registry := NewProviderRegistry(target, nil)
	return NewAnalyzer(registry, judge, "gemini-judge", time.Second)
}

var testBrand = models.BrandProfile{
	Name:        "Acme CRM",
	Category:    "CRM software",
	Competitors: []string{"RivalSoft"},
}

func awarenessTemplate() models.PromptTemplate {
	return models.PromptTemplate{ID: "t1", Text: "Top five {category}?", Stage: models.StageAwareness, Weight: 2}
}

func TestAnalyzeSuccessMapsOutcomeToScore(t *testing.T) {
	analyzer := newTestAnalyzer(
		fixedCaller("1. Acme CRM\n2. RivalSoft\n3. OtherCo\n4. FourthCo\n5. FifthCo", 120),
		fixedCaller(judgmentJSON("first", 40), 80),
	)

	result := analyzer.Analyze(context.Background(), "gemini-2.5-flash", awarenessTemplate(), "Top five CRM software?", testBrand)

	assert.Equal(t, models.StatusSuccess, result.Status)
	// The vocabulary score wins over the judge's self-reported score.
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, 200.0, result.WeightedScore)
	assert.Equal(t, int64(200), result.ResponseTimeMs)
	assert.Contains(t, result.Response, "Acme CRM")
	assert.Equal(t, 60.0, result.Sentiment.Positive)

	require.NotNil(t, result.CompetitorData)
	require.Len(t, result.CompetitorData.Competitors, 1)
	assert.Equal(t, "rivalsoft", result.CompetitorData.Competitors[0].NormalizedName)
	assert.NotEmpty(t, result.CompetitorData.Citations)
}

func TestAnalyzeUnrecognizedOutcomeUsesCappedFallback(t *testing.T) {
	tmpl := models.PromptTemplate{ID: "b1", Text: "Should I buy {brand_name}?", Stage: models.StageDecision, Weight: 1}
	analyzer := newTestAnalyzer(
		fixedCaller("Yes, it is an excellent choice.", 50),
		fixedCaller(judgmentJSON("strongly-yes", 95), 50),
	)

	result := analyzer.Analyze(context.Background(), "gemini-2.5-flash", tmpl, "Should I buy Acme CRM?", testBrand)

	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 66.0, result.Score)
}

func TestAnalyzeTargetFailureYieldsErrorResult(t *testing.T) {
	analyzer := newTestAnalyzer(
		failingCaller(&UpstreamCallError{Model: "gemini-2.5-flash", Err: errors.New("quota exceeded")}),
		fixedCaller(judgmentJSON("first", 90), 10),
	)

	result := analyzer.Analyze(context.Background(), "gemini-2.5-flash", awarenessTemplate(), "Top five CRM software?", testBrand)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0.0, result.WeightedScore)
	assert.Contains(t, result.Response, "analysis failed")
	assert.Contains(t, result.Response, "quota exceeded")
	assert.Equal(t, int64(5), result.ResponseTimeMs)
}

func TestAnalyzeMalformedJudgeOutputYieldsErrorResult(t *testing.T) {
	analyzer := newTestAnalyzer(
		fixedCaller("1. Acme CRM", 40),
		fixedCaller("I cannot evaluate this answer.", 30),
	)

	result := analyzer.Analyze(context.Background(), "gemini-2.5-flash", awarenessTemplate(), "Top five CRM software?", testBrand)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Equal(t, int64(70), result.ResponseTimeMs)
}

func TestAnalyzeUnsupportedModelYieldsErrorResult(t *testing.T) {
	analyzer := newTestAnalyzer(fixedCaller("answer", 10), fixedCaller(judgmentJSON("first", 90), 10))

	result := analyzer.Analyze(context.Background(), "claude-sonnet", awarenessTemplate(), "Top five CRM software?", testBrand)

	assert.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Response, "unsupported model")
}

func TestAnalyzeDefaultsNonPositiveWeight(t *testing.T) {
	tmpl := models.PromptTemplate{ID: "t1", Text: "q", Stage: models.StageAwareness, Weight: 0}
	analyzer := newTestAnalyzer(fixedCaller("1. Acme CRM", 10), fixedCaller(judgmentJSON("second", 75), 10))

	result := analyzer.Analyze(context.Background(), "gemini-2.5-flash", tmpl, "q", testBrand)

	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 75.0, result.Score)
	assert.Equal(t, 75.0, result.WeightedScore)
}

func TestBuildJudgePromptCarriesStageVocabulary(t *testing.T) {
	policy, err := policyForStage(models.StageDecision)
	require.NoError(t, err)

	prompt := buildJudgePrompt(testBrand, "Should I buy Acme CRM?", "Yes.", policy)

	assert.Contains(t, prompt, "Acme CRM")
	assert.Contains(t, prompt, "RivalSoft")
	assert.Contains(t, prompt, strings.Join(policy.OutcomeVocabulary(), ", "))
	assert.Contains(t, prompt, "ONLY the JSON output")
}
