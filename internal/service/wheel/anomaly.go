package wheel

import (
	"time"

	"wheel_predictor/internal/model"
)

const (
	// anomalyWindow - размер каждого из двух сравниваемых окон
	anomalyWindow = 20
	// пороги количества аномалий для уровня
	mediumSeverityAfter = 2
	highSeverityAfter   = 5
)

// detectAnomaly сравнивает последние 20 исходов с 20 предыдущими.
// При расхождении выше порога частично сбрасывает обучение.
func (e *Engine) detectAnomaly(now time.Time) bool {
	if len(e.history) < 2*anomalyWindow {
		return false
	}

	recent := distribution(e.history[:anomalyWindow])
	previous := distribution(e.history[anomalyWindow : 2*anomalyWindow])

	if divergence(recent, previous) <= e.cfg.AnomalyThreshold() {
		return false
	}

	e.anomalies.Count++
	detected := now
	e.anomalies.LastDetected = &detected
	e.anomalies.Level = severity(e.anomalies.Count)

	e.dampenBiases()
	return true
}

func severity(count int) string {
	switch {
	case count > highSeverityAfter:
		return model.SeverityHigh
	case count > mediumSeverityAfter:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// dampenBiases притягивает каждый вес на полпути к 1.0
func (e *Engine) dampenBiases() {
	for o, w := range e.biases {
		e.biases[o] = w*0.5 + 0.5
	}
}
