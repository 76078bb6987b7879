package converter

import (
	"wheel_predictor/internal/api/dto/wheel"
	"wheel_predictor/internal/model"
)

func ToAnalysisResponse(a model.Analysis) wheel.AnalysisResponse {
	res := wheel.AnalysisResponse{
		Distribution: make(map[string]float64, len(a.Distribution)),
		Predictions:  make([]wheel.PredictionItem, 0, len(a.Predictions)),
		Pattern: wheel.PatternResponse{
			Label:     a.Pattern.Label,
			Intensity: a.Pattern.Intensity,
			Duration:  a.Pattern.Duration,
			Stability: a.Pattern.Stability,
		},
		Stats:  make(map[string]wheel.StatResponse, len(a.Stats)),
		Trends: make(map[string]wheel.TrendResponse, len(a.Trends)),
		Temporal: wheel.TemporalResponse{
			Hour:           a.Temporal.Hour,
			Day:            a.Temporal.Day,
			HourTrend:      a.Temporal.HourTrend,
			HourConfidence: a.Temporal.HourConfidence,
			DayTrend:       a.Temporal.DayTrend,
			DayConfidence:  a.Temporal.DayConfidence,
		},
		Anomalies: wheel.AnomalyResponse{
			Count:        a.Anomalies.Count,
			LastDetected: a.Anomalies.LastDetected,
			Level:        a.Anomalies.Level,
		},
		Learning: wheel.LearningResponse{
			Correct:        a.Learning.Correct,
			Wrong:          a.Learning.Wrong,
			FirstHitRate:   a.Learning.FirstHitRate,
			LastPrediction: ToSymbols(a.Learning.LastPrediction),
		},
		HistorySize: a.HistorySize,
		Recent:      ToSymbols(a.Recent),
	}

	for o, p := range a.Distribution {
		res.Distribution[string(o)] = p
	}
	for _, o := range a.Predictions {
		res.Predictions = append(res.Predictions, wheel.PredictionItem{
			Symbol:      string(o),
			Name:        o.Name(),
			Probability: a.Distribution[o],
		})
	}
	for o, s := range a.Stats {
		res.Stats[string(o)] = wheel.StatResponse{Count: s.Count, Percentage: s.Percentage}
	}
	for o, t := range a.Trends {
		res.Trends[string(o)] = wheel.TrendResponse{Direction: t.Direction, Delta: t.Delta}
	}
	if !a.UpdatedAt.IsZero() {
		updated := a.UpdatedAt
		res.UpdatedAt = &updated
	}
	return res
}

func ToIngestResponse(r model.IngestResult) wheel.IngestResponse {
	return wheel.IngestResponse{
		Evaluated:       r.Evaluated,
		Hit:             r.Hit,
		AnomalyDetected: r.AnomalyDetected,
		Analysis:        ToAnalysisResponse(r.Analysis),
	}
}

func ToBatchResponse(r model.ReconcileResult) wheel.BatchResponse {
	return wheel.BatchResponse{
		Ingested:  ToSymbols(r.Ingested),
		Hits:      r.Hits,
		Misses:    r.Misses,
		Anomalies: r.Anomalies,
		Analysis:  ToAnalysisResponse(r.Analysis),
	}
}

func ToStoreResponse(s model.StoreStatus) wheel.StoreResponse {
	return wheel.StoreResponse{
		Healthy:   s.Healthy,
		LastSaved: s.LastSaved,
		LastError: s.LastError,
		Logged:    s.LoggedOutcomes,
	}
}

// ToOutcomes приводит названия из запроса к символам. Любое неизвестное название - ошибка
func ToOutcomes(req wheel.BatchRequest) ([]model.Outcome, error) {
	outcomes := make([]model.Outcome, 0, len(req.Results))
	for _, name := range req.Results {
		o, err := model.LookupOutcome(name)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

func ToSymbols(outcomes []model.Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = string(o)
	}
	return out
}
