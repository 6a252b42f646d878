package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJudgmentJSON = `{
  "outcome": "first",
  "score": 80,
  "confidence": 90,
  "rationale": "The brand is ranked first in the list.",
  "sentiment": {
    "overall": "positive",
    "confidence": 88,
    "distribution": {"positive": 70, "neutral": 20, "negative": 10, "strongly_positive": 30}
  },
  "competitors": [],
  "citations": []
}`

func TestExtractJudgmentPlainJSON(t *testing.T) {
	judgment, err := ExtractJudgment(validJudgmentJSON)
	require.NoError(t, err)

	assert.Equal(t, "first", judgment.Outcome)
	assert.Equal(t, 80.0, judgment.Score)
	assert.Equal(t, 90.0, judgment.Confidence)
	assert.Equal(t, "positive", judgment.Sentiment.Overall)
	assert.Equal(t, 70.0, judgment.Sentiment.Distribution.Positive)
	assert.Equal(t, 30.0, judgment.Sentiment.Distribution.StronglyPositive)
}

func TestExtractJudgmentMarkdownFence(t *testing.T) {
	wrapped := "```json\n" + validJudgmentJSON + "\n```"

	judgment, err := ExtractJudgment(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "first", judgment.Outcome)
}

func TestExtractJudgmentSurroundingProse(t *testing.T) {
	wrapped := "Sure, here is my evaluation:\n" + validJudgmentJSON + "\nLet me know if you need anything else."

	judgment, err := ExtractJudgment(wrapped)
	require.NoError(t, err)
	assert.Equal(t, 80.0, judgment.Score)
}

func TestExtractJudgmentTrailingCommasAndComments(t *testing.T) {
	raw := `{
  "outcome": "second", // rank from the list
  "score": 75,
  "confidence": 80,
  "rationale": "Listed second, see https://example.com/reviews for context.",
  "sentiment": {
    "overall": "neutral",
    "confidence": 60,
    "distribution": {"positive": 40, "neutral": 50, "negative": 10, "strongly_positive": 5,},
  },
}`

	judgment, err := ExtractJudgment(raw)
	require.NoError(t, err)
	assert.Equal(t, "second", judgment.Outcome)
	// The URL inside the rationale must survive line-comment stripping.
	assert.Contains(t, judgment.Rationale, "https://example.com/reviews")
}

func TestExtractJudgmentSingleQuoteFallback(t *testing.T) {
	raw := `{'outcome': 'third', 'score': 50, 'confidence': 70, 'rationale': 'Ranked third.', 'sentiment': {'overall': 'neutral', 'confidence': 55, 'distribution': {'positive': 30, 'neutral': 60, 'negative': 10, 'strongly_positive': 0}}}`

	judgment, err := ExtractJudgment(raw)
	require.NoError(t, err)
	assert.Equal(t, "third", judgment.Outcome)
	assert.Equal(t, 50.0, judgment.Score)
}

func TestExtractJudgmentPureProse(t *testing.T) {
	long := strings.Repeat("The model declined to answer in any structured form. ", 20)

	_, err := ExtractJudgment(long)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.LessOrEqual(t, len(malformed.Preview), 300)
	assert.NotEmpty(t, malformed.Preview)
}

func TestExtractJudgmentRootNotObject(t *testing.T) {
	_, err := ExtractJudgment(`[1, 2, 3]`)

	var invalid *InvalidJudgmentError
	require.ErrorAs(t, err, &invalid)
}

func TestExtractJudgmentMissingFields(t *testing.T) {
	raw := `{"outcome": "first", "rationale": "ok", "sentiment": {"overall": "positive"}}`

	_, err := ExtractJudgment(raw)

	var invalid *InvalidJudgmentError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Fields, "score")
	assert.Contains(t, invalid.Fields, "confidence")
	assert.NotContains(t, invalid.Fields, "rationale")
	assert.NotContains(t, invalid.Fields, "sentiment")
}

func TestExtractJudgmentNonObjectSentiment(t *testing.T) {
	raw := `{"outcome": "first", "score": 80, "confidence": 90, "rationale": "ok", "sentiment": "positive"}`

	_, err := ExtractJudgment(raw)

	var invalid *InvalidJudgmentError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"sentiment"}, invalid.Fields)
}

func TestExtractJudgmentClampsRanges(t *testing.T) {
	raw := `{
  "outcome": "first",
  "score": 140,
  "confidence": -5,
  "rationale": "out of range",
  "sentiment": {"overall": "positive", "confidence": 90, "distribution": {"positive": 120, "neutral": -10, "negative": 0, "strongly_positive": 50}}
}`

	judgment, err := ExtractJudgment(raw)
	require.NoError(t, err)
	assert.Equal(t, 100.0, judgment.Score)
	assert.Equal(t, 0.0, judgment.Confidence)
	assert.Equal(t, 100.0, judgment.Sentiment.Distribution.Positive)
	assert.Equal(t, 0.0, judgment.Sentiment.Distribution.Neutral)
}

func TestRepairStepsIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": 1,}\n```",
		"prose before {\"a\": [1, 2,]} prose after",
		`{"a": 1 /* note */, "b": 2}`,
	}

	for _, input := range inputs {
		once := input
		for _, step := range repairPipeline {
			once = step(once)
		}
		twice := once
		for _, step := range repairPipeline {
			twice = step(twice)
		}
		assert.Equal(t, once, twice, "pipeline not idempotent for %q", input)
	}
}

func TestMalformedResponseErrorUnwraps(t *testing.T) {
	_, err := ExtractJudgment("no json here at all")
	require.Error(t, err)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.True(t, errors.Unwrap(malformed) != nil)
}
