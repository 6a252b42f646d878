package models

// BrandProfile is the read-only brand context supplied by the caller. It is
// owned and persisted elsewhere; the pipeline only reads it when rendering
// prompts and building judge context.
type BrandProfile struct {
	Name           string   `json:"name" bson:"name"`
	Category       string   `json:"category" bson:"category"`
	Region         string   `json:"region" bson:"region"`
	TargetAudience []string `json:"targetAudience" bson:"targetAudience"`
	Competitors    []string `json:"competitors" bson:"competitors"`
	PrimaryUseCase string   `json:"primaryUseCase" bson:"primaryUseCase"`
	FeatureList    []string `json:"featureList" bson:"featureList"`
}
