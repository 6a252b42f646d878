package models

import "time"

// RawModelResponse is what a provider call returns for one rendered prompt.
// Ephemeral; never persisted.
type RawModelResponse struct {
	Text      string
	ElapsedMs int64
}

// SentimentDistribution holds four independently estimated percentages, each
// in [0,100]. They need not sum to 100.
type SentimentDistribution struct {
	Positive         float64 `json:"positive" bson:"positive"`
	Neutral          float64 `json:"neutral" bson:"neutral"`
	Negative         float64 `json:"negative" bson:"negative"`
	StronglyPositive float64 `json:"strongly_positive" bson:"stronglyPositive"`
}

// SentimentSummary is the judge's sentiment reading for one response.
type SentimentSummary struct {
	Overall      string                `json:"overall" bson:"overall"`
	Confidence   float64               `json:"confidence" bson:"confidence"`
	Distribution SentimentDistribution `json:"distribution" bson:"distribution"`
}

// StructuredJudgment is the parsed output of the scoring call: the judge
// model's evaluation of a raw answer against the brand and stage rubric.
type StructuredJudgment struct {
	Score       float64             `json:"score"`
	Confidence  float64             `json:"confidence"`
	Rationale   string              `json:"rationale"`
	Outcome     string              `json:"outcome"`
	Sentiment   SentimentSummary    `json:"sentiment"`
	Competitors []CompetitorMention `json:"competitors"`
	Citations   []DomainCitation    `json:"citations"`
}

// CompetitorMention is an advisory signal, not authoritative: the judge
// thought it saw a competitor in the answer. Deduplication across runs is a
// display-layer concern.
type CompetitorMention struct {
	Name            string   `json:"name" bson:"name"`
	NormalizedName  string   `json:"normalized_name" bson:"normalizedName"`
	ConfidenceScore float64  `json:"confidence_score" bson:"confidenceScore"`
	SourceDomains   []string `json:"source_domains" bson:"sourceDomains"`
}

// DomainCitation is a domain the answer cited or leaned on.
type DomainCitation struct {
	Domain         string  `json:"domain" bson:"domain"`
	AuthorityScore float64 `json:"authority_score" bson:"authorityScore"`
	SourceType     string  `json:"source_type" bson:"sourceType"`
	Relevance      string  `json:"relevance" bson:"relevance"`
	Reasoning      string  `json:"reasoning" bson:"reasoning"`
}

// AggregatedSentiment is the stage-level sentiment rollup across successful
// prompts, renormalized to percentages.
type AggregatedSentiment struct {
	Overall      string                `json:"overall" bson:"overall"`
	Confidence   int                   `json:"confidence" bson:"confidence"`
	Distribution SentimentDistribution `json:"distribution" bson:"distribution"`
}

// AggregatedAnalysis is the output of running every prompt for one
// (brand, model, stage). Constructed once per run and never mutated after.
type AggregatedAnalysis struct {
	RunID               string              `json:"runId" bson:"runId"`
	Brand               string              `json:"brand" bson:"brand"`
	Model               string              `json:"model" bson:"model"`
	Stage               FunnelStage         `json:"stage" bson:"stage"`
	OverallScore        float64             `json:"overallScore" bson:"overallScore"`
	WeightedScore       float64             `json:"weightedScore" bson:"weightedScore"`
	PromptResults       []PromptResult      `json:"promptResults" bson:"promptResults"`
	AggregatedSentiment AggregatedSentiment `json:"aggregatedSentiment" bson:"aggregatedSentiment"`
	TotalResponseTimeMs int64               `json:"totalResponseTimeMs" bson:"totalResponseTimeMs"`
	SuccessRate         float64             `json:"successRate" bson:"successRate"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
}
