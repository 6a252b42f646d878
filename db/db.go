package db

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database
var AnalysisCollection *mongo.Collection

// extractDBName parses the database name from the URI, defaulting to "brand_visibility"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "brand_visibility"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "brand_visibility"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection with a ping
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	dbName := extractDBName(uri)
	log.Printf("Using database: %s", dbName)

	MongoDatabase = client.Database(dbName)
	AnalysisCollection = MongoDatabase.Collection("stage_analyses")
	return nil
}

// SaveAnalysis stores one finished stage analysis.
func SaveAnalysis(ctx context.Context, analysis *models.AggregatedAnalysis) error {
	_, err := AnalysisCollection.InsertOne(ctx, analysis)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysesForBrand retrieves stored analyses for a brand, most recent first.
func GetAnalysesForBrand(ctx context.Context, brand string) ([]models.AggregatedAnalysis, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := AnalysisCollection.Find(ctx, bson.M{"brand": brand}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find analyses: %w", err)
	}
	defer cursor.Close(ctx)

	var analyses []models.AggregatedAnalysis
	if err = cursor.All(ctx, &analyses); err != nil {
		return nil, fmt.Errorf("failed to decode analyses: %w", err)
	}
	return analyses, nil
}

// GetLatestAnalysis retrieves the most recent analysis for one (brand, model, stage).
func GetLatestAnalysis(ctx context.Context, brand, model string, stage models.FunnelStage) (*models.AggregatedAnalysis, error) {
	filter := bson.M{"brand": brand, "model": model, "stage": stage}
	opts := options.FindOne().SetSort(bson.M{"createdAt": -1})

	var analysis models.AggregatedAnalysis
	err := AnalysisCollection.FindOne(ctx, filter, opts).Decode(&analysis)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no analysis found for %s/%s/%s", brand, model, stage.Label())
		}
		return nil, err
	}
	return &analysis, nil
}
