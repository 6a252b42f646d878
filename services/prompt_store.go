package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

// PromptStore loads prompt templates from a CSV source once per process and
// serves them from an in-memory cache. The cache is never invalidated; a
// restart picks up new definitions. Callers receive an instance rather than
// a package singleton so tests can isolate their own stores.
type PromptStore struct {
	path string
	once sync.Once

	prompts []models.PromptTemplate
	loadErr error
}

// NewPromptStore returns a store backed by the CSV file at path. Nothing is
// read until the first Load (or PromptsForStage) call.
func NewPromptStore(path string) *PromptStore {
	return &PromptStore{path: path}
}

// NewStaticPromptStore returns a store pre-populated with the given
// templates, bypassing the CSV source. Intended for tests.
func NewStaticPromptStore(prompts []models.PromptTemplate) *PromptStore {
	s := &PromptStore{prompts: prompts}
	s.once.Do(func() {})
	return s
}

// Load reads and caches the prompt definitions. Concurrent first callers
// share a single read; every caller observes the same cached list afterward.
// A read or parse failure is fatal and cached as well: no partial result.
func (s *PromptStore) Load() ([]models.PromptTemplate, error) {
	s.once.Do(func() {
		s.prompts, s.loadErr = readPromptCSV(s.path)
	})
	return s.prompts, s.loadErr
}

// PromptsForStage returns the cached templates belonging to stage.
func (s *PromptStore) PromptsForStage(stage models.FunnelStage) ([]models.PromptTemplate, error) {
	prompts, err := s.Load()
	if err != nil {
		return nil, err
	}

	var filtered []models.PromptTemplate
	for _, p := range prompts {
		if p.Stage == stage {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func readPromptCSV(path string) ([]models.PromptTemplate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prompt source: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt source: %w", err)
	}

	var prompts []models.PromptTemplate
	for i, record := range records {
		if len(record) < 3 {
			return nil, fmt.Errorf("prompt source row %d has %d fields, want at least 3", i+1, len(record))
		}
		id := strings.TrimSpace(record[0])
		text := strings.TrimSpace(record[1])
		stageField := strings.TrimSpace(record[2])

		// Header row is optional.
		if i == 0 && strings.EqualFold(id, "prompt_id") {
			continue
		}

		stage, err := models.ParseFunnelStage(stageField)
		if err != nil {
			return nil, fmt.Errorf("prompt source row %d: %w", i+1, err)
		}

		weight := 1.0
		if len(record) > 3 {
			if w := strings.TrimSpace(record[3]); w != "" {
				weight, err = strconv.ParseFloat(w, 64)
				if err != nil || weight <= 0 {
					return nil, fmt.Errorf("prompt source row %d: invalid weight %q", i+1, w)
				}
			}
		}

		prompts = append(prompts, models.PromptTemplate{
			ID:     id,
			Text:   text,
			Stage:  stage,
			Weight: weight,
		})
	}

	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompt source %s contains no prompt definitions", path)
	}
	return prompts, nil
}

// Generic fallbacks keep rendered prompts grammatically complete when the
// brand profile leaves a field empty. A placeholder token must never survive
// rendering.
var placeholderFallbacks = map[string]string{
	"{brand_name}":   "your brand",
	"{category}":     "your product category",
	"{region}":       "your region",
	"{audience}":     "your target audience",
	"{use_case}":     "your primary use case",
	"{competitor}":   "a leading competitor",
	"{feature_list}": "its key features",
}

// RenderPlaceholders substitutes every recognized placeholder token in the
// template with the matching brand field, falling back to a generic phrase
// when the field is empty.
func RenderPlaceholders(template models.PromptTemplate, brand models.BrandProfile) string {
	values := map[string]string{
		"{brand_name}":   brand.Name,
		"{category}":     brand.Category,
		"{region}":       brand.Region,
		"{audience}":     strings.Join(brand.TargetAudience, ", "),
		"{use_case}":     brand.PrimaryUseCase,
		"{feature_list}": strings.Join(brand.FeatureList, ", "),
	}
	if len(brand.Competitors) > 0 {
		values["{competitor}"] = brand.Competitors[0]
	}

	rendered := template.Text
	for token, fallback := range placeholderFallbacks {
		value := strings.TrimSpace(values[token])
		if value == "" {
			value = fallback
		}
		rendered = strings.ReplaceAll(rendered, token, value)
	}
	return rendered
}
