package wheel

import "wheel_predictor/internal/model"

// distribution - доля каждого символа в окне.
// Пустое окно не проверяется, длину проверяет вызывающий код.
func distribution(window []model.Outcome) map[model.Outcome]float64 {
	dist := make(map[model.Outcome]float64, model.SymbolsLen)
	for _, o := range window {
		dist[o]++
	}
	total := float64(len(window))
	for o := range dist {
		dist[o] /= total
	}
	return dist
}

// divergence - сумма модулей разностей по символам, которые есть в recent.
// Символы, выпавшие только в previous, не учитываются
func divergence(recent, previous map[model.Outcome]float64) float64 {
	var total float64
	for _, o := range model.Alphabet {
		r, ok := recent[o]
		if !ok {
			continue
		}
		d := r - previous[o]
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}
