package services

import (
	"context"
	"errors"
	"time"

	"github.com/CCMKTGGP/brand-visibility-tracker/config"
	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

var defaultStageAnalyzer *StageAnalyzer

// InitAnalysisService wires the providers, prompt store, and analyzers from
// configuration. Must be called once at startup before AnalyzeStage.
func InitAnalysisService(ctx context.Context, cfg *config.Config) error {
	gemini, err := NewGeminiCaller(ctx, cfg.Gemini.ApiKey)
	if err != nil {
		return err
	}

	var openai ModelCaller
	if cfg.Openai.GptApiKey != "" {
		openai = NewOpenAICaller(cfg.Openai.GptApiKey, cfg.Openai.Endpoint)
	}

	registry := NewProviderRegistry(gemini, openai)
	analyzer := NewAnalyzer(registry, gemini, cfg.Analysis.JudgeModel,
		time.Duration(cfg.Analysis.CallTimeoutSeconds)*time.Second)
	store := NewPromptStore(cfg.Prompts.Path)

	// Fail fast on an unreadable prompt source instead of at first request.
	if _, err := store.Load(); err != nil {
		return err
	}

	defaultStageAnalyzer = NewStageAnalyzer(store, analyzer,
		time.Duration(cfg.Analysis.InterCallDelayMs)*time.Millisecond)
	return nil
}

// AnalyzeStage runs the configured pipeline for one (brand, model, stage).
func AnalyzeStage(ctx context.Context, brand models.BrandProfile, modelName string, stage models.FunnelStage) (*models.AggregatedAnalysis, error) {
	if defaultStageAnalyzer == nil {
		return nil, errors.New("analysis service not initialized")
	}
	return defaultStageAnalyzer.AnalyzeStage(ctx, brand, modelName, stage)
}
