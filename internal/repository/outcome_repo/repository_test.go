package outcome_repo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/model"
)

func TestInsertQueries_SplitsIntoChunks(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	outcomes := make([]model.Outcome, 2*chunkSize+1)
	for i := range outcomes {
		outcomes[i] = model.One
	}
	outcomes[len(outcomes)-1] = model.CrazyTime

	queries := insertQueries(outcomes, model.SourceBatch, at)
	require.Len(t, queries, 3)

	sqlStr, args, err := queries[0].ToSql()
	require.NoError(t, err)
	assert.Len(t, args, 3*chunkSize)
	assert.True(t, strings.HasPrefix(sqlStr, "INSERT INTO wheel_outcomes (symbol,source,observed_at) VALUES ($1,$2,$3)"))

	_, args, err = queries[2].ToSql()
	require.NoError(t, err)
	assert.Equal(t, []any{"CT", model.SourceBatch, at}, args)

	assert.Empty(t, insertQueries(nil, model.SourceBatch, at))
}
