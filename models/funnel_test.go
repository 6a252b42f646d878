package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFunnelStage(t *testing.T) {
	cases := map[string]FunnelStage{
		"TOFU":          StageAwareness,
		"tofu":          StageAwareness,
		" Awareness ":   StageAwareness,
		"MOFU":          StageConsideration,
		"consideration": StageConsideration,
		"BOFU":          StageDecision,
		"Decision":      StageDecision,
		"EVFU":          StageAdvocacy,
		"advocacy":      StageAdvocacy,
	}
	for input, want := range cases {
		stage, err := ParseFunnelStage(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, stage, input)
	}

	_, err := ParseFunnelStage("retention")
	assert.Error(t, err)
}

func TestFunnelStageLabels(t *testing.T) {
	assert.Equal(t, "Awareness", StageAwareness.Label())
	assert.Equal(t, "Consideration", StageConsideration.Label())
	assert.Equal(t, "Decision", StageDecision.Label())
	assert.Equal(t, "Advocacy", StageAdvocacy.Label())
}

func TestFunnelStageValid(t *testing.T) {
	for _, stage := range AllStages() {
		assert.True(t, stage.Valid(), string(stage))
	}
	assert.False(t, FunnelStage("XXFU").Valid())
}
