package models

import (
	"fmt"
	"strings"
)

// FunnelStage identifies one phase of the buyer journey. The values match the
// stage labels used in the prompt definition CSV.
type FunnelStage string

const (
	StageAwareness     FunnelStage = "TOFU"
	StageConsideration FunnelStage = "MOFU"
	StageDecision      FunnelStage = "BOFU"
	StageAdvocacy      FunnelStage = "EVFU"
)

// AllStages returns the four funnel stages in journey order.
func AllStages() []FunnelStage {
	return []FunnelStage{StageAwareness, StageConsideration, StageDecision, StageAdvocacy}
}

// Label returns the human-readable stage name.
func (s FunnelStage) Label() string {
	switch s {
	case StageAwareness:
		return "Awareness"
	case StageConsideration:
		return "Consideration"
	case StageDecision:
		return "Decision"
	case StageAdvocacy:
		return "Advocacy"
	}
	return string(s)
}

// Valid reports whether s is one of the four known stages.
func (s FunnelStage) Valid() bool {
	switch s {
	case StageAwareness, StageConsideration, StageDecision, StageAdvocacy:
		return true
	}
	return false
}

// ParseFunnelStage accepts either the CSV label (TOFU/MOFU/BOFU/EVFU) or the
// human-readable name, case-insensitively.
func ParseFunnelStage(value string) (FunnelStage, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TOFU", "AWARENESS":
		return StageAwareness, nil
	case "MOFU", "CONSIDERATION":
		return StageConsideration, nil
	case "BOFU", "DECISION":
		return StageDecision, nil
	case "EVFU", "ADVOCACY":
		return StageAdvocacy, nil
	}
	return "", fmt.Errorf("unknown funnel stage: %q", value)
}
