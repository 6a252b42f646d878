package models

// PromptTemplate is one prompt definition loaded from the CSV source.
// Immutable once loaded.
type PromptTemplate struct {
	ID     string      `json:"id"`
	Text   string      `json:"text"`
	Stage  FunnelStage `json:"stage"`
	Weight float64     `json:"weight"`
}

// Prompt result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PromptResult is the outcome of analyzing a single rendered prompt against
// one model. Exactly one is produced per prompt per run, regardless of
// failures along the way.
type PromptResult struct {
	PromptID       string                 `json:"promptId" bson:"promptId"`
	RenderedText   string                 `json:"renderedText" bson:"renderedText"`
	Score          float64                `json:"score" bson:"score"`
	WeightedScore  float64                `json:"weightedScore" bson:"weightedScore"`
	Response       string                 `json:"response" bson:"response"`
	ResponseTimeMs int64                  `json:"responseTimeMs" bson:"responseTimeMs"`
	Sentiment      SentimentDistribution  `json:"sentiment" bson:"sentiment"`
	Status         string                 `json:"status" bson:"status"`
	CompetitorData *CompetitorCitationSet `json:"competitorData,omitempty" bson:"competitorData,omitempty"`
}

// CompetitorCitationSet groups the advisory extraction signals attached to a
// successful prompt result.
type CompetitorCitationSet struct {
	Competitors []CompetitorMention `json:"competitors" bson:"competitors"`
	Citations   []DomainCitation    `json:"citations" bson:"citations"`
}
