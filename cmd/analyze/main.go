package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/CCMKTGGP/brand-visibility-tracker/config"
	"github.com/CCMKTGGP/brand-visibility-tracker/models"
	"github.com/CCMKTGGP/brand-visibility-tracker/services"
)

// Runs one (brand, model, stage) analysis from the command line and prints
// the aggregated result as JSON. Useful for trying prompt or rubric changes
// without the HTTP server or MongoDB.
func main() {
	configPath := flag.String("config", "./config/config.yml", "path to the YAML config file")
	brandName := flag.String("brand", "", "brand name (required)")
	category := flag.String("category", "", "brand category")
	region := flag.String("region", "", "brand region")
	useCase := flag.String("use-case", "", "primary use case")
	competitors := flag.String("competitors", "", "comma-separated competitor names")
	modelName := flag.String("model", "", "target model name, defaults to the configured judge model")
	stageFlag := flag.String("stage", "TOFU", "funnel stage: TOFU, MOFU, BOFU, or EVFU")
	flag.Parse()

	if *brandName == "" {
		log.Fatal("-brand is required")
	}

	stage, err := models.ParseFunnelStage(*stageFlag)
	if err != nil {
		log.Fatalf("Invalid stage: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *modelName == "" {
		*modelName = cfg.Analysis.JudgeModel
	}

	ctx := context.Background()
	if err := services.InitAnalysisService(ctx, cfg); err != nil {
		log.Fatalf("Failed to initialize analysis service: %v", err)
	}

	brand := models.BrandProfile{
		Name:           *brandName,
		Category:       *category,
		Region:         *region,
		PrimaryUseCase: *useCase,
	}
	if *competitors != "" {
		for _, name := range strings.Split(*competitors, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				brand.Competitors = append(brand.Competitors, trimmed)
			}
		}
	}

	analysis, err := services.AnalyzeStage(ctx, brand, *modelName, stage)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(analysis); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
