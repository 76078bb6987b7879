package wheel

import (
	"slices"
	"sort"
	"time"

	"wheel_predictor/internal/model"
	wheelModel "wheel_predictor/internal/service/wheel/model"
)

const (
	// topPredictions - сколько символов попадает в прогноз
	topPredictions = 3
	// trendDeadBand - изменение вероятности (в п.п.), ниже которого тренд "flat"
	trendDeadBand = 0.5
)

type prediction struct {
	// распределение до ограничения сверху, сумма 100
	uncapped     model.ProbabilityDistribution
	distribution model.ProbabilityDistribution
	top          []model.Outcome
}

// predict: база паттерна × веса -> нормализация -> поправка часа -> нормализация ->
// поправка дня -> нормализация -> ограничение MaxConfidence -> top-3.
// Порядок нормализаций влияет на результат, объединять их нельзя.
func (e *Engine) predict(label string, now time.Time) prediction {
	base := baseTable(label, e.history)

	probs := make(model.ProbabilityDistribution, model.SymbolsLen)
	for _, o := range model.Alphabet {
		probs[o] = base[o] * e.biases[o]
	}
	normalize(probs)

	adjustForTrend(probs, e.temporal.Hourly[now.Hour()], wheelModel.HourAdjustment)
	normalize(probs)

	adjustForTrend(probs, e.temporal.Daily[int(now.Weekday())], wheelModel.DayAdjustment)
	normalize(probs)

	uncapped := make(model.ProbabilityDistribution, len(probs))
	maxConfidence := e.cfg.MaxConfidence()
	for o, p := range probs {
		uncapped[o] = p
		if p > maxConfidence {
			probs[o] = maxConfidence
		}
	}

	ranked := rank(probs)
	return prediction{
		uncapped:     uncapped,
		distribution: probs,
		top:          ranked[:topPredictions],
	}
}

// baseTable выбирает базовую таблицу. Для двух паттернов учитывается,
// был ли недавно "большой" специальный исход.
func baseTable(label string, history []model.Outcome) wheelModel.BaseTable {
	switch label {
	case model.PatternBasicDrain:
		return wheelModel.BasicDrainTable
	case model.PatternProlongedDrain:
		return wheelModel.ProlongedDrainTable
	case model.PatternReactiveManipulation:
		recent := history[:min(wheelModel.ReactiveLookback, len(history))]
		if slices.Contains(recent, model.CrazyTime) {
			return wheelModel.ReactiveAfterBigTable
		}
		return wheelModel.ReactiveTable
	case model.PatternCalculatedDelivery:
		recent := history[:min(wheelModel.CalculatedLookback, len(history))]
		if slices.Contains(recent, model.CrazyTime) || slices.Contains(recent, model.Pachinko) {
			return wheelModel.CalculatedAfterBigTable
		}
		return wheelModel.CalculatedTable
	case model.PatternEmotionalDelivery:
		return wheelModel.EmotionalDeliveryTable
	default:
		return wheelModel.FallbackTable
	}
}

// adjustForTrend применяет множители тренда корзины, если в ней достаточно данных
func adjustForTrend(probs model.ProbabilityDistribution, bucket *model.TemporalBucket, adj wheelModel.TemporalAdjustment) {
	if bucket == nil || bucket.Total <= adj.MinTotal {
		return
	}

	var factors map[model.Outcome]float64
	switch bucket.Trend {
	case model.TrendDelivery:
		factors = adj.Delivery
	case model.TrendDrain:
		factors = adj.Drain
	default:
		return
	}
	for o, f := range factors {
		probs[o] *= f
	}
}

// normalize приводит сумму к 100
func normalize(probs model.ProbabilityDistribution) {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if sum <= 0 {
		return
	}
	for o, p := range probs {
		probs[o] = p / sum * 100
	}
}

// rank сортирует символы по убыванию вероятности, при равенстве - порядок алфавита
func rank(probs model.ProbabilityDistribution) []model.Outcome {
	ranked := make([]model.Outcome, len(model.Alphabet))
	copy(ranked, model.Alphabet[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		return probs[ranked[i]] > probs[ranked[j]]
	})
	return ranked
}

// calculateStats - количество и доля каждого символа во всей истории
func calculateStats(history []model.Outcome) map[model.Outcome]model.SymbolStat {
	stats := make(map[model.Outcome]model.SymbolStat, model.SymbolsLen)
	for _, o := range model.Alphabet {
		stats[o] = model.SymbolStat{}
	}
	for _, o := range history {
		s := stats[o]
		s.Count++
		stats[o] = s
	}
	if len(history) == 0 {
		return stats
	}
	for o, s := range stats {
		s.Percentage = float64(s.Count) / float64(len(history)) * 100
		stats[o] = s
	}
	return stats
}

// calculateTrends сравнивает новое распределение с предыдущим
func calculateTrends(current, previous model.ProbabilityDistribution) map[model.Outcome]model.ProbabilityTrend {
	trends := make(map[model.Outcome]model.ProbabilityTrend, model.SymbolsLen)
	for _, o := range model.Alphabet {
		diff := current[o] - previous[o]
		t := model.ProbabilityTrend{Direction: model.DirectionFlat, Delta: diff}
		switch {
		case diff > trendDeadBand:
			t.Direction = model.DirectionUp
		case diff < -trendDeadBand:
			t.Direction = model.DirectionDown
		}
		trends[o] = t
	}
	return trends
}
