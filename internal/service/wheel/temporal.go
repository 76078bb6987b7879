package wheel

import (
	"math"
	"time"

	"wheel_predictor/internal/model"
	wheelModel "wheel_predictor/internal/service/wheel/model"
)

const (
	deliveryRatio = 0.25
	drainRatio    = 0.15

	// объем данных, при котором уверенность 100%
	hourConfidenceTotal = 20
	dayConfidenceTotal  = 50
)

// updateTemporal учитывает исход в корзинах текущего часа и дня недели
// и пересчитывает тренды всех корзин с достаточным объемом.
func (e *Engine) updateTemporal(outcome model.Outcome, now time.Time) {
	hour := bucketFor(e.temporal.Hourly, now.Hour())
	day := bucketFor(e.temporal.Daily, int(now.Weekday()))

	hour.Total++
	day.Total++
	if outcome.IsSpecial() {
		hour.Specials++
		day.Specials++
	}

	refreshTrends(e.temporal.Hourly, wheelModel.HourAdjustment.MinTotal)
	refreshTrends(e.temporal.Daily, wheelModel.DayAdjustment.MinTotal)
}

func bucketFor(buckets map[int]*model.TemporalBucket, key int) *model.TemporalBucket {
	b, ok := buckets[key]
	if !ok {
		b = &model.TemporalBucket{Trend: model.TrendNeutral}
		buckets[key] = b
	}
	return b
}

func refreshTrends(buckets map[int]*model.TemporalBucket, minTotal int) {
	for _, b := range buckets {
		if b.Total <= minTotal {
			continue
		}
		b.Trend = trendFor(float64(b.Specials) / float64(b.Total))
	}
}

func trendFor(ratio float64) string {
	switch {
	case ratio > deliveryRatio:
		return model.TrendDelivery
	case ratio < drainRatio:
		return model.TrendDrain
	default:
		return model.TrendNeutral
	}
}

// temporalSummary - тренд и уверенность для часа и дня момента now
func (e *Engine) temporalSummary(now time.Time) model.TemporalSummary {
	s := model.TemporalSummary{
		Hour:      now.Hour(),
		Day:       int(now.Weekday()),
		HourTrend: model.TrendNeutral,
		DayTrend:  model.TrendNeutral,
	}
	if b, ok := e.temporal.Hourly[s.Hour]; ok {
		s.HourTrend = b.Trend
		s.HourConfidence = confidence(b.Total, hourConfidenceTotal)
	}
	if b, ok := e.temporal.Daily[s.Day]; ok {
		s.DayTrend = b.Trend
		s.DayConfidence = confidence(b.Total, dayConfidenceTotal)
	}
	return s
}

func confidence(total, full int) int {
	return min(100, int(math.Round(float64(total)/float64(full)*100)))
}
