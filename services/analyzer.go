package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

// Analyzer runs one (model, prompt, stage) evaluation end to end: the target
// model call, the secondary judge call, extraction, and scoring. Analyze
// never lets a failure escape; every prompt yields exactly one PromptResult.
type Analyzer struct {
	providers   *ProviderRegistry
	judge       ModelCaller
	judgeModel  string
	callTimeout time.Duration
}

func NewAnalyzer(providers *ProviderRegistry, judge ModelCaller, judgeModel string, callTimeout time.Duration) *Analyzer {
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	return &Analyzer{
		providers:   providers,
		judge:       judge,
		judgeModel:  judgeModel,
		callTimeout: callTimeout,
	}
}

// Analyze evaluates one rendered prompt against the target model. On any
// failure it returns a PromptResult with status error, score 0, the elapsed
// time up to the failure, and a diagnostic message in place of the answer.
func (a *Analyzer) Analyze(ctx context.Context, modelName string, tmpl models.PromptTemplate, rendered string, brand models.BrandProfile) models.PromptResult {
	policy, err := policyForStage(tmpl.Stage)
	if err != nil {
		return errorResult(tmpl, rendered, 0, err)
	}

	caller, err := a.providers.CallerFor(modelName)
	if err != nil {
		return errorResult(tmpl, rendered, 0, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	raw, err := caller.Call(callCtx, modelName, rendered, policy.SystemInstruction())
	cancel()
	elapsed := raw.ElapsedMs
	if err != nil {
		return errorResult(tmpl, rendered, elapsed, err)
	}

	judgeCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	judgeRaw, err := a.judge.Call(judgeCtx, a.judgeModel, buildJudgePrompt(brand, rendered, raw.Text, policy), "")
	cancel()
	elapsed += judgeRaw.ElapsedMs
	if err != nil {
		return errorResult(tmpl, rendered, elapsed, err)
	}

	judgment, err := ExtractJudgment(judgeRaw.Text)
	if err != nil {
		return errorResult(tmpl, rendered, elapsed, err)
	}

	score, ok := policy.ScoreOutcome(judgment.Outcome)
	if !ok {
		// Unrecognized outcome label: trust the judge's own score but keep
		// it inside the stage's cap for non-explicit evidence.
		score = judgment.Score
		if limit := policy.FallbackCap(); score > limit {
			score = limit
		}
	}

	weight := tmpl.Weight
	if weight <= 0 {
		weight = 1
	}

	return models.PromptResult{
		PromptID:       tmpl.ID,
		RenderedText:   rendered,
		Score:          score,
		WeightedScore:  score * weight,
		Response:       raw.Text,
		ResponseTimeMs: elapsed,
		Sentiment:      judgment.Sentiment.Distribution,
		Status:         models.StatusSuccess,
		CompetitorData: &models.CompetitorCitationSet{
			Competitors: normalizeCompetitors(judgment.Competitors),
			Citations:   recoverCitations(judgment.Citations, raw.Text, brand),
		},
	}
}

func errorResult(tmpl models.PromptTemplate, rendered string, elapsedMs int64, err error) models.PromptResult {
	return models.PromptResult{
		PromptID:       tmpl.ID,
		RenderedText:   rendered,
		Score:          0,
		WeightedScore:  0,
		Response:       fmt.Sprintf("analysis failed: %v", err),
		ResponseTimeMs: elapsedMs,
		Status:         models.StatusError,
	}
}

// buildJudgePrompt asks the judge model to evaluate the raw answer against
// the brand and the stage rubric, in strict JSON.
func buildJudgePrompt(brand models.BrandProfile, renderedPrompt, answer string, policy stagePolicy) string {
	competitors := "none listed"
	if len(brand.Competitors) > 0 {
		competitors = strings.Join(brand.Competitors, ", ")
	}

	return fmt.Sprintf(
		`Act as a brand visibility judge for the %s stage of the buyer journey. Evaluate how the brand "%s" appears in an AI model's answer.

Stage rubric:
%s

Brand context:
- Category: %s
- Known competitors: %s

Original question asked to the model:
%s

The model's answer:
%s

Required Output Format (JSON):
{
  "outcome": "one of: %s",
  "score": 0-100,
  "confidence": 0-100,
  "rationale": "one or two sentences explaining the outcome",
  "sentiment": {
    "overall": "positive" | "neutral" | "negative",
    "confidence": 0-100,
    "distribution": {"positive": 0-100, "neutral": 0-100, "negative": 0-100, "strongly_positive": 0-100}
  },
  "competitors": [{"name": "text", "normalized_name": "lowercase", "confidence_score": 0-100, "source_domains": []}],
  "citations": [{"domain": "example.com", "authority_score": 0-100, "source_type": "primary" | "secondary", "relevance": "text", "reasoning": "text"}]
}

Provide ONLY the JSON output without additional text or markdown formatting.`,
		policy.Stage().Label(),
		brand.Name,
		policy.RubricText(),
		brand.Category,
		competitors,
		renderedPrompt,
		answer,
		strings.Join(policy.OutcomeVocabulary(), ", "),
	)
}
