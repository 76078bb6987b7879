package wheel

import (
	"math"

	"wheel_predictor/internal/model"
)

const (
	// patternWindow - сколько последних исходов определяют паттерн
	patternWindow = 20
	// minSegment - минимальная длина предыдущего сегмента при подсчете длительности
	minSegment = 10
	// stableDuration - длительность, при которой стабильность 100%
	stableDuration = 5
)

// specialRatio - доля специальных исходов в окне, 0 для пустого окна
func specialRatio(window []model.Outcome) float64 {
	if len(window) == 0 {
		return 0
	}
	specials := 0
	for _, o := range window {
		if o.IsSpecial() {
			specials++
		}
	}
	return float64(specials) / float64(len(window))
}

// classify переводит долю специальных исходов в метку паттерна
func classify(ratio float64) string {
	switch {
	case ratio == 0:
		return model.PatternBasicDrain
	case ratio <= 0.1:
		return model.PatternProlongedDrain
	case ratio <= 0.2:
		return model.PatternReactiveManipulation
	case ratio <= 0.3:
		return model.PatternCalculatedDelivery
	default:
		return model.PatternEmotionalDelivery
	}
}

// analyzePattern - чистая функция от истории (от новых к старым)
func analyzePattern(history []model.Outcome) model.PatternState {
	if len(history) == 0 {
		return model.PatternState{Label: model.PatternUnknown}
	}

	ratio := specialRatio(history[:min(patternWindow, len(history))])
	label := classify(ratio)

	// Длительность: текущее окно плюс предыдущие непересекающиеся сегменты с той же меткой
	duration := 1
	for i := patternWindow; i < len(history); i += patternWindow {
		segment := history[i:min(i+patternWindow, len(history))]
		if len(segment) < minSegment {
			break
		}
		if classify(specialRatio(segment)) != label {
			break
		}
		duration++
	}

	return model.PatternState{
		Label:     label,
		Intensity: min(100, int(math.Round(ratio*100))),
		Duration:  duration,
		Stability: min(100, int(math.Round(float64(duration)/stableDuration*100))),
	}
}
