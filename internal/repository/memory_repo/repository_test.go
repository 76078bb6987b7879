package memory_repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/model"
)

func TestRepo_Snapshot(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()

	_, err := r.LoadSnapshot(ctx)
	require.ErrorIs(t, err, model.ErrNoSnapshot)

	data := []byte(`{"results":[]}`)
	require.NoError(t, r.SaveSnapshot(ctx, data))
	data[0] = 'x'

	got, err := r.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"results":[]}`, string(got))
}

func TestRepo_Outcomes(t *testing.T) {
	r := NewRepository()
	ctx := context.Background()
	at := time.Unix(1700000000, 0)

	require.NoError(t, r.AppendOutcomes(ctx, []model.Outcome{model.Five, model.Pachinko}, "batch", at))

	count, err := r.CountOutcomes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, OutcomeRecord{Outcome: model.Pachinko, Source: "batch", ObservedAt: at}, r.Records()[1])

	require.NoError(t, r.DeleteOutcomes(ctx))
	assert.Empty(t, r.Records())
}
