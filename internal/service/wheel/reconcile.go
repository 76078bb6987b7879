package wheel

import (
	"fmt"
	"slices"

	"wheel_predictor/internal/model"
)

// ReconcileBatch принимает внешний список результатов (от новых к старым), который может
// пересекаться с уже известной историей, и добавляет только новые исходы, от старых к новым.
// Если в пачке есть неизвестный символ, ничего не добавляется.
func (e *Engine) ReconcileBatch(batch []model.Outcome) (model.ReconcileResult, error) {
	for _, o := range batch {
		if !o.Valid() {
			return model.ReconcileResult{}, fmt.Errorf("%w: %q", model.ErrUnknownOutcome, string(o))
		}
	}

	fresh := newPrefixLen(batch, e.history)
	res := model.ReconcileResult{Ingested: make([]model.Outcome, 0, fresh)}

	for i := fresh - 1; i >= 0; i-- {
		ir, err := e.Ingest(batch[i])
		if err != nil {
			return res, err
		}
		res.Ingested = append(res.Ingested, batch[i])
		if ir.Evaluated {
			if ir.Hit {
				res.Hits++
			} else {
				res.Misses++
			}
		}
		if ir.AnomalyDetected {
			res.Anomalies++
		}
	}

	res.Analysis = e.Analysis()
	return res, nil
}

// newPrefixLen возвращает наименьшее k, при котором batch[k:] совпадает с началом истории
// на всей их общей (непустой) длине. batch[:k] - новые исходы.
// Если совпадения нет или история пуста, новыми считаются все.
func newPrefixLen(batch, history []model.Outcome) int {
	for k := 0; k < len(batch); k++ {
		n := min(len(batch)-k, len(history))
		if n == 0 {
			break
		}
		if slices.Equal(batch[k:k+n], history[:n]) {
			return k
		}
	}
	return len(batch)
}
