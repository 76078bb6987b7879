package wheel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheel_predictor/internal/model"
)

func TestTrendFor(t *testing.T) {
	assert.Equal(t, model.TrendDelivery, trendFor(0.26))
	assert.Equal(t, model.TrendNeutral, trendFor(0.25))
	assert.Equal(t, model.TrendNeutral, trendFor(0.15))
	assert.Equal(t, model.TrendDrain, trendFor(0.14))
}

func TestEngine_TemporalBuckets(t *testing.T) {
	now := testNow
	e := NewEngine(testConfig(t, 10000, 85), func() time.Time { return now })

	// 10 исходов в корзине - тренд еще не определяется
	ingestAll(t, e, repeat(model.CrazyTime, 10)...)
	hour := e.Temporal().Hourly[14]
	require.NotNil(t, hour)
	assert.Equal(t, 10, hour.Total)
	assert.Equal(t, 10, hour.Specials)
	assert.Equal(t, model.TrendNeutral, hour.Trend)

	ingestAll(t, e, model.CrazyTime)
	assert.Equal(t, model.TrendDelivery, e.Temporal().Hourly[14].Trend)
	assert.Equal(t, model.TrendNeutral, e.Temporal().Daily[int(time.Monday)].Trend)

	// другой час и день получают свои корзины
	now = testNow.Add(25 * time.Hour)
	ingestAll(t, e, model.One)
	tt := e.Temporal()
	assert.Equal(t, 1, tt.Hourly[15].Total)
	assert.Equal(t, 1, tt.Daily[int(time.Tuesday)].Total)
	assert.Equal(t, 11, tt.Hourly[14].Total)

	s := e.Analysis().Temporal
	assert.Equal(t, 15, s.Hour)
	assert.Equal(t, int(time.Tuesday), s.Day)
	assert.Equal(t, 5, s.HourConfidence)
}

func TestEngine_DeliveryHourBoostsSpecials(t *testing.T) {
	e := newTestEngine(t)
	ingestAll(t, e, model.One)
	plain := e.predict(model.PatternBasicDrain, testNow)

	e.temporal.Hourly[testNow.Hour()] = &model.TemporalBucket{Total: 11, Specials: 5, Trend: model.TrendDelivery}
	boosted := e.predict(model.PatternBasicDrain, testNow)

	assert.Greater(t, boosted.uncapped[model.CrazyTime], plain.uncapped[model.CrazyTime])
	assert.Less(t, boosted.uncapped[model.One], plain.uncapped[model.One])

	// корзина с объемом на пороге не влияет
	e.temporal.Hourly[testNow.Hour()].Total = 10
	same := e.predict(model.PatternBasicDrain, testNow)
	assert.InDelta(t, plain.uncapped[model.CrazyTime], same.uncapped[model.CrazyTime], 1e-12)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0, confidence(0, 20))
	assert.Equal(t, 50, confidence(10, 20))
	assert.Equal(t, 100, confidence(80, 20))
	assert.Equal(t, 2, confidence(1, 50))
}
