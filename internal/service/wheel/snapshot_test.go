package wheel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/model"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	src := newTestEngine(t)
	ingestAll(t, src, model.One, model.CoinFlip, model.Two, model.One, model.CrazyTime, model.Five)

	data, err := src.Snapshot()
	require.NoError(t, err)

	dst := newTestEngine(t)
	fallback := dst.Restore(data)
	assert.Empty(t, fallback)

	assert.Equal(t, src.History(), dst.History())
	assert.Equal(t, src.Temporal(), dst.Temporal())
	for o, w := range src.Biases() {
		assert.InDelta(t, w, dst.Biases()[o], 1e-12)
	}

	sa, da := src.Analysis(), dst.Analysis()
	assert.Equal(t, sa.Learning, da.Learning)
	assert.Equal(t, sa.Pattern, da.Pattern)
	assert.Equal(t, sa.Predictions, da.Predictions)
	assert.Equal(t, sa.Anomalies, da.Anomalies)
}

func TestSnapshot_Sections(t *testing.T) {
	e := newTestEngine(t)
	ingestAll(t, e, model.Ten)

	data, err := e.Snapshot()
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc, len(allSections))
	for _, s := range allSections {
		assert.Contains(t, doc, s)
	}
	assert.JSONEq(t, `["10"]`, string(doc[SectionResults]))
	assert.JSONEq(t, `{"count":0,"lastDetected":null,"level":"Low"}`, string(doc[SectionAnomaly]))
}

func TestRestore_WithoutAnomalies(t *testing.T) {
	e := newTestEngine(t)

	fallback := e.Restore([]byte(`{
		"results": ["CT", "1", "2"],
		"learning": {"correct": 3, "wrong": 1, "lastPrediction": ["2", "1", "5"], "firstHitRate": 75},
		"biases": {"1": 0.9, "2": 1.1},
		"temporalPatterns": {"hourly": {"14": {"total": 12, "specials": 6, "trend": "Delivery"}}, "daily": {}}
	}`))

	assert.Equal(t, []string{SectionAnomaly}, fallback)
	assert.Equal(t, model.NewAnomalyState(), e.Analysis().Anomalies)

	assert.Equal(t, []model.Outcome{model.CrazyTime, model.One, model.Two}, e.History())
	a := e.Analysis()
	assert.Equal(t, 3, a.Learning.Correct)
	// сохраненный ["2","1","5"] заменен пересчитанным прогнозом
	assert.Equal(t, []model.Outcome{model.One, model.Two, model.Five}, a.Learning.LastPrediction)
	assert.Equal(t, a.Predictions, a.Learning.LastPrediction)
	assert.Equal(t, 0.9, e.Biases()[model.One])
	assert.Equal(t, 1.0, e.Biases()[model.CrazyTime])
	assert.Equal(t, model.TrendDelivery, e.Temporal().Hourly[14].Trend)
	assert.Equal(t, model.PatternEmotionalDelivery, a.Pattern.Label)
	assert.Len(t, a.Predictions, 3)
}

func TestRestore_DropsUnknownSymbols(t *testing.T) {
	e := newTestEngine(t)

	e.Restore([]byte(`{"results": ["1", "bogus", "CT", "", "P"]}`))

	assert.Equal(t, []model.Outcome{model.One, model.CrazyTime, model.Pachinko}, e.History())
}

func TestRestore_BadBiasResetsTable(t *testing.T) {
	tests := []string{
		`{"biases": {"1": 1.5, "2": 0}}`,
		`{"biases": {"1": -2}}`,
		`{"biases": "oops"}`,
		`{"biases": null}`,
	}
	for _, in := range tests {
		e := newTestEngine(t)
		e.biases[model.One] = 3

		fallback := e.Restore([]byte(in))

		assert.Contains(t, fallback, SectionBiases, in)
		assert.Equal(t, model.NewBiasTable(), e.Biases(), in)
	}
}

func TestRestore_GarbageFallsBackToDefaults(t *testing.T) {
	e := newTestEngine(t)
	ingestAll(t, e, model.One, model.Two)

	fallback := e.Restore([]byte(`not json`))

	assert.ElementsMatch(t, allSections, fallback)
	assert.Empty(t, e.History())
	assert.Equal(t, model.PatternUnknown, e.Analysis().Pattern.Label)
}

func TestRestore_RecomputesMissingPrediction(t *testing.T) {
	e := newTestEngine(t)

	e.Restore([]byte(`{"results": ["1"], "learning": {"correct": 0, "wrong": 0, "lastPrediction": [], "firstHitRate": 0}}`))

	a := e.Analysis()
	assert.Equal(t, []model.Outcome{model.One, model.Two, model.Five}, a.Learning.LastPrediction)

	// следующий исход оценивается по пересчитанному прогнозу
	res, err := e.Ingest(model.One)
	require.NoError(t, err)
	assert.True(t, res.Evaluated)
	assert.True(t, res.Hit)
}

func TestRestore_StoredPredictionKeptWithoutHistory(t *testing.T) {
	e := newTestEngine(t)

	e.Restore([]byte(`{"results": [], "learning": {"correct": 1, "wrong": 0, "lastPrediction": ["CT", "P", "H"], "firstHitRate": 100}}`))

	assert.Equal(t, []model.Outcome{model.CrazyTime, model.Pachinko, model.CashHunt}, e.Analysis().Learning.LastPrediction)
}

func TestRestore_InvalidTemporalBucketsSkipped(t *testing.T) {
	e := newTestEngine(t)

	e.Restore([]byte(`{"temporalPatterns": {
		"hourly": {"3": {"total": 5, "specials": 9, "trend": "Delivery"}, "30": {"total": 1, "specials": 0}, "4": {"total": 2, "specials": 1, "trend": "weird"}},
		"daily": {"6": {"total": 40, "specials": 2, "trend": "Drain"}}
	}}`))

	tt := e.Temporal()
	assert.NotContains(t, tt.Hourly, 3)
	assert.NotContains(t, tt.Hourly, 30)
	require.Contains(t, tt.Hourly, 4)
	assert.Equal(t, model.TrendNeutral, tt.Hourly[4].Trend)
	assert.Equal(t, model.TrendDrain, tt.Daily[6].Trend)
}
