package services

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// StageAnalyzer runs every prompt configured for one (brand, model, stage)
// and folds the per-prompt results into a single AggregatedAnalysis. Prompts
// run strictly sequentially with a fixed delay between calls to respect
// upstream rate limits and bound concurrent cost exposure.
type StageAnalyzer struct {
	store    *PromptStore
	analyzer *Analyzer
	delay    time.Duration
}

func NewStageAnalyzer(store *PromptStore, analyzer *Analyzer, delay time.Duration) *StageAnalyzer {
	return &StageAnalyzer{store: store, analyzer: analyzer, delay: delay}
}

// AnalyzeStage evaluates all prompts for the stage. Individual prompt
// failures are recorded in the results and the success rate; only two
// conditions are run-level failures: a stage with zero configured prompts
// (NoPromptsForStageError) and a run where every prompt errored
// (AllPromptsFailedError).
func (s *StageAnalyzer) AnalyzeStage(ctx context.Context, brand models.BrandProfile, modelName string, stage models.FunnelStage) (*models.AggregatedAnalysis, error) {
	prompts, err := s.store.PromptsForStage(stage)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, &NoPromptsForStageError{Stage: stage}
	}

	results := make([]models.PromptResult, 0, len(prompts))
	var successScores, successWeighted []float64
	var sentimentSum models.SentimentDistribution
	var totalTimeMs int64

	for i, tmpl := range prompts {
		// Throttle between calls, never before the first or after the last.
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		rendered := RenderPlaceholders(tmpl, brand)
		result := s.analyzer.Analyze(ctx, modelName, tmpl, rendered, brand)
		results = append(results, result)
		totalTimeMs += result.ResponseTimeMs

		if result.Status != models.StatusSuccess {
			continue
		}
		successScores = append(successScores, result.Score)
		successWeighted = append(successWeighted, result.WeightedScore)
		sentimentSum.Positive += result.Sentiment.Positive
		sentimentSum.Neutral += result.Sentiment.Neutral
		sentimentSum.Negative += result.Sentiment.Negative
		sentimentSum.StronglyPositive += result.Sentiment.StronglyPositive
	}

	successCount := len(successScores)
	total := len(prompts)
	if successCount == 0 {
		return nil, &AllPromptsFailedError{Stage: stage, Total: total}
	}
	if successCount < total {
		log.Printf("stage %s: %d of %d prompts failed for brand %s on model %s",
			stage.Label(), total-successCount, total, brand.Name, modelName)
	}

	// Non-empty by construction; Mean cannot fail here.
	overall, _ := stats.Mean(successScores)
	weighted, _ := stats.Mean(successWeighted)

	return &models.AggregatedAnalysis{
		RunID:               uuid.NewString(),
		Brand:               brand.Name,
		Model:               modelName,
		Stage:               stage,
		OverallScore:        overall,
		WeightedScore:       weighted,
		PromptResults:       results,
		AggregatedSentiment: aggregateSentiment(sentimentSum, successCount),
		TotalResponseTimeMs: totalTimeMs,
		SuccessRate:         float64(successCount) / float64(total) * 100,
		CreatedAt:           time.Now().UTC(),
	}, nil
}

// aggregateSentiment renormalizes the summed per-prompt distributions to
// percentages of their grand total and derives the overall label and
// confidence.
func aggregateSentiment(sum models.SentimentDistribution, successCount int) models.AggregatedSentiment {
	grand := sum.Positive + sum.Neutral + sum.Negative + sum.StronglyPositive

	aggregated := models.AggregatedSentiment{Overall: "neutral"}
	if grand > 0 {
		aggregated.Distribution = models.SentimentDistribution{
			Positive:         sum.Positive / grand * 100,
			Neutral:          sum.Neutral / grand * 100,
			Negative:         sum.Negative / grand * 100,
			StronglyPositive: sum.StronglyPositive / grand * 100,
		}
	}
	if sum.Positive > sum.Negative {
		aggregated.Overall = "positive"
	} else if sum.Negative > sum.Positive {
		aggregated.Overall = "negative"
	}

	if successCount > 0 {
		largest := math.Max(math.Max(sum.Positive, sum.Neutral), math.Max(sum.Negative, sum.StronglyPositive))
		aggregated.Confidence = int(math.Round(largest / float64(successCount)))
	}
	return aggregated
}
