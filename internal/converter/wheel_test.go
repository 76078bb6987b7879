package converter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/api/dto/wheel"
	"wheel_predictor/internal/model"
)

func TestToOutcomes(t *testing.T) {
	got, err := ToOutcomes(wheel.BatchRequest{Results: []string{"Crazy Time", "1", "cash hunt"}})
	require.NoError(t, err)
	assert.Equal(t, []model.Outcome{model.CrazyTime, model.One, model.CashHunt}, got)

	_, err = ToOutcomes(wheel.BatchRequest{Results: []string{"1", "nope"}})
	assert.ErrorIs(t, err, model.ErrUnknownOutcome)

	// текст, содержащий название, не равен названию
	_, err = ToOutcomes(wheel.BatchRequest{Results: []string{"hunter", "1"}})
	assert.ErrorIs(t, err, model.ErrUnknownOutcome)
}

func TestToAnalysisResponse(t *testing.T) {
	a := model.Analysis{
		Distribution: model.ProbabilityDistribution{model.One: 40, model.CrazyTime: 0.5},
		Predictions:  []model.Outcome{model.One},
		Pattern:      model.PatternState{Label: model.PatternBasicDrain, Duration: 1},
		Recent:       []model.Outcome{model.One},
		HistorySize:  1,
		UpdatedAt:    time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
	}

	res := ToAnalysisResponse(a)

	assert.Equal(t, 40.0, res.Distribution["1"])
	assert.Equal(t, []wheel.PredictionItem{{Symbol: "1", Name: "Number 1", Probability: 40}}, res.Predictions)
	assert.Equal(t, []string{"1"}, res.Recent)
	assert.Equal(t, []string{}, res.Learning.LastPrediction)
	require.NotNil(t, res.UpdatedAt)

	empty := ToAnalysisResponse(model.Analysis{})
	assert.Nil(t, empty.UpdatedAt)
	assert.NotNil(t, empty.Predictions)
}
