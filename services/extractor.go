package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

const previewLimit = 300

// repairStep is one textual repair heuristic. Each step is pure and
// idempotent; steps run in a fixed order, each on the output of the previous.
type repairStep func(string) string

var repairPipeline = []repairStep{
	stripCodeFences,
	isolateJSONSpan,
	stripTrailingCommas,
	stripComments,
}

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	// Requires start-of-line or whitespace before // so URLs inside string
	// values survive.
	lineCommentRe = regexp.MustCompile(`(?m)(^|\s)//[^\n]*`)
)

// stripCodeFences removes a leading/trailing Markdown code fence, including
// an optional language tag on the opening fence.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		if idx := strings.Index(trimmed, "\n"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// isolateJSONSpan discards prose around the outermost {...} or [...] span,
// using a greedy match from the first opener to the last closer.
func isolateJSONSpan(text string) string {
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	start, closer := objStart, "}"
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start < 0 {
		return text
	}

	end := strings.LastIndex(text, closer)
	if end <= start {
		return text
	}
	return text[start : end+1]
}

// stripTrailingCommas drops commas immediately before a closing brace or
// bracket, a common generation artifact.
func stripTrailingCommas(text string) string {
	return trailingCommaRe.ReplaceAllString(text, "$1")
}

// stripComments removes /* block */ and // line comment sequences that some
// models emit despite JSON forbidding them.
func stripComments(text string) string {
	text = blockCommentRe.ReplaceAllString(text, "")
	return lineCommentRe.ReplaceAllString(text, "$1")
}

// normalizeQuotes blindly converts single quotes to double quotes. Last
// resort only; applied after the strict parse of the repaired text fails.
func normalizeQuotes(text string) string {
	return strings.ReplaceAll(text, "'", `"`)
}

func preview(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > previewLimit {
		return trimmed[:previewLimit]
	}
	return trimmed
}

// extractJSONValue runs the repair pipeline and attempts a strict parse, then
// one quote-normalized fallback parse. Returns MalformedResponseError when
// everything fails.
func extractJSONValue(raw string) (interface{}, error) {
	cleaned := raw
	for _, step := range repairPipeline {
		cleaned = step(cleaned)
	}

	var value interface{}
	firstErr := json.Unmarshal([]byte(cleaned), &value)
	if firstErr == nil {
		return value, nil
	}

	var fallback interface{}
	if err := json.Unmarshal([]byte(normalizeQuotes(cleaned)), &fallback); err == nil {
		return fallback, nil
	}

	return nil, &MalformedResponseError{Err: firstErr, Preview: preview(raw)}
}

// ExtractJudgment turns the judge model's free text into a validated
// StructuredJudgment. Returns MalformedResponseError when no strategy yields
// JSON at all, InvalidJudgmentError when the parsed object fails structural
// validation.
func ExtractJudgment(raw string) (*models.StructuredJudgment, error) {
	value, err := extractJSONValue(raw)
	if err != nil {
		return nil, err
	}

	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, &InvalidJudgmentError{Fields: []string{"(root is not an object)"}}
	}

	var invalid []string

	score, ok := obj["score"].(float64)
	if !ok || math.IsNaN(score) {
		invalid = append(invalid, "score")
	}
	if _, ok := obj["confidence"].(float64); !ok {
		invalid = append(invalid, "confidence")
	}
	if _, ok := obj["rationale"].(string); !ok {
		invalid = append(invalid, "rationale")
	}
	if sentiment, ok := obj["sentiment"]; !ok || sentiment == nil {
		invalid = append(invalid, "sentiment")
	} else if _, ok := sentiment.(map[string]interface{}); !ok {
		invalid = append(invalid, "sentiment")
	}

	if len(invalid) > 0 {
		return nil, &InvalidJudgmentError{Fields: invalid}
	}

	// Round-trip through json to map the loose object onto the typed struct.
	encoded, err := json.Marshal(obj)
	if err != nil {
		return nil, &InvalidJudgmentError{Fields: []string{"(unencodable object)"}}
	}
	var judgment models.StructuredJudgment
	if err := json.Unmarshal(encoded, &judgment); err != nil {
		return nil, &InvalidJudgmentError{Fields: []string{"(type mismatch: " + err.Error() + ")"}}
	}

	judgment.Score = clampPercent(judgment.Score)
	judgment.Confidence = clampPercent(judgment.Confidence)
	judgment.Sentiment.Distribution = clampDistribution(judgment.Sentiment.Distribution)

	return &judgment, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampDistribution(d models.SentimentDistribution) models.SentimentDistribution {
	d.Positive = clampPercent(d.Positive)
	d.Neutral = clampPercent(d.Neutral)
	d.Negative = clampPercent(d.Negative)
	d.StronglyPositive = clampPercent(d.StronglyPositive)
	return d
}
