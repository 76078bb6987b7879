package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersInIsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OutcomesTotal.WithLabelValues("manual").Add(2)
	m.PredictionsTotal.WithLabelValues("hit").Inc()
	m.HistorySize.Set(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutcomesTotal.WithLabelValues("manual")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.HistorySize))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	// повторная регистрация в другом реестре не паникует
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
