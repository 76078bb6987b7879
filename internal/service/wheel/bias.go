package wheel

import "wheel_predictor/internal/model"

// evaluatePrediction сверяет новый исход с первым символом прошлого прогноза и
// обновляет веса. Без прошлого прогноза ничего не делает.
func (e *Engine) evaluatePrediction(actual model.Outcome) (evaluated, hit bool) {
	if len(e.learning.LastPrediction) == 0 {
		return false, false
	}

	if e.learning.LastPrediction[0] == actual {
		// Попадание: модель уже отдавала предпочтение символу, ослабляем
		e.learning.Correct++
		e.biases[actual] *= 1 - e.cfg.LearningRateDown()
		hit = true
	} else {
		// Промах: усиливаем фактически выпавший символ
		e.learning.Wrong++
		e.biases[actual] *= 1 + e.cfg.LearningRateUp()
	}

	total := e.learning.Correct + e.learning.Wrong
	e.learning.FirstHitRate = float64(e.learning.Correct) / float64(total) * 100

	normalizeBiases(e.biases)
	return true, hit
}

// normalizeBiases масштабирует веса так, чтобы среднее было 1.0
func normalizeBiases(biases model.BiasTable) {
	var sum float64
	for _, w := range biases {
		sum += w
	}
	if sum <= 0 {
		return
	}
	factor := float64(len(biases)) / sum
	for o := range biases {
		biases[o] *= factor
	}
}
