package wheel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/model"
)

func TestReconcileBatch_EmptyHistory(t *testing.T) {
	e := newTestEngine(t)
	batch := []model.Outcome{model.CrazyTime, model.Five, model.One}

	res, err := e.ReconcileBatch(batch)
	require.NoError(t, err)

	// добавляются от старых к новым
	assert.Equal(t, []model.Outcome{model.One, model.Five, model.CrazyTime}, res.Ingested)
	assert.Equal(t, batch, e.History())
	assert.Equal(t, 2, res.Hits+res.Misses)
	assert.Equal(t, 3, res.Analysis.HistorySize)
}

func TestReconcileBatch_Overlap(t *testing.T) {
	e := newTestEngine(t)
	// история: [c, b, a] (новые первыми)
	ingestAll(t, e, model.One, model.Two, model.Five)

	batch := []model.Outcome{model.Ten, model.CoinFlip, model.Five, model.Two, model.One, model.CashHunt}
	res, err := e.ReconcileBatch(batch)
	require.NoError(t, err)

	assert.Equal(t, []model.Outcome{model.CoinFlip, model.Ten}, res.Ingested)
	assert.Equal(t, []model.Outcome{model.Ten, model.CoinFlip, model.Five, model.Two, model.One}, e.History())
}

func TestReconcileBatch_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	batch := []model.Outcome{model.Two, model.Pachinko, model.One, model.One, model.Ten}

	_, err := e.ReconcileBatch(batch)
	require.NoError(t, err)
	first, err := e.Snapshot()
	require.NoError(t, err)

	res, err := e.ReconcileBatch(batch)
	require.NoError(t, err)
	assert.Empty(t, res.Ingested)
	assert.Zero(t, res.Hits+res.Misses)

	second, err := e.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestReconcileBatch_NoOverlap(t *testing.T) {
	e := newTestEngine(t)
	ingestAll(t, e, model.One)

	res, err := e.ReconcileBatch([]model.Outcome{model.Two, model.Two})
	require.NoError(t, err)
	assert.Len(t, res.Ingested, 2)
	assert.Equal(t, []model.Outcome{model.Two, model.Two, model.One}, e.History())
}

func TestReconcileBatch_RejectsWholeBatch(t *testing.T) {
	e := newTestEngine(t)
	ingestAll(t, e, model.One)

	_, err := e.ReconcileBatch([]model.Outcome{model.Two, "X", model.One})
	require.ErrorIs(t, err, model.ErrUnknownOutcome)
	assert.Equal(t, []model.Outcome{model.One}, e.History())
}

func TestReconcileBatch_Empty(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.ReconcileBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Ingested)
	assert.Zero(t, res.Analysis.HistorySize)
}

func TestNewPrefixLen(t *testing.T) {
	h := []model.Outcome{model.One, model.Two, model.Five}

	assert.Equal(t, 0, newPrefixLen([]model.Outcome{model.One, model.Two}, h))
	assert.Equal(t, 1, newPrefixLen([]model.Outcome{model.Ten, model.One, model.Two, model.Five, model.Ten}, h))
	assert.Equal(t, 2, newPrefixLen([]model.Outcome{model.Ten, model.Ten}, h))
	assert.Equal(t, 2, newPrefixLen([]model.Outcome{model.Ten, model.Ten}, nil))
}
