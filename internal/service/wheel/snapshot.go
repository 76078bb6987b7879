package wheel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"wheel_predictor/internal/model"
)

// Разделы снимка состояния
const (
	SectionResults  = "results"
	SectionLearning = "learning"
	SectionBiases   = "biases"
	SectionTemporal = "temporalPatterns"
	SectionAnomaly  = "anomalies"
)

var allSections = []string{SectionResults, SectionLearning, SectionBiases, SectionTemporal, SectionAnomaly}

type snapshotDoc struct {
	Results          []model.Outcome           `json:"results"`
	Learning         learningDoc               `json:"learning"`
	Biases           map[model.Outcome]float64 `json:"biases"`
	TemporalPatterns temporalDoc               `json:"temporalPatterns"`
	Anomalies        anomalyDoc                `json:"anomalies"`
}

type learningDoc struct {
	Correct        int             `json:"correct"`
	Wrong          int             `json:"wrong"`
	LastPrediction []model.Outcome `json:"lastPrediction"`
	FirstHitRate   float64         `json:"firstHitRate"`
}

type temporalDoc struct {
	Hourly map[int]bucketDoc `json:"hourly"`
	Daily  map[int]bucketDoc `json:"daily"`
}

type bucketDoc struct {
	Total    int    `json:"total"`
	Specials int    `json:"specials"`
	Trend    string `json:"trend"`
}

type anomalyDoc struct {
	Count        int        `json:"count"`
	LastDetected *time.Time `json:"lastDetected"`
	Level        string     `json:"level"`
}

// Snapshot сериализует историю, обучение, веса, временные корзины и аномалии.
// Паттерн, прогноз и статистика не сохраняются, они вычисляются заново.
func (e *Engine) Snapshot() ([]byte, error) {
	doc := snapshotDoc{
		Results: cloneOutcomes(e.history),
		Learning: learningDoc{
			Correct:        e.learning.Correct,
			Wrong:          e.learning.Wrong,
			LastPrediction: cloneOutcomes(e.learning.LastPrediction),
			FirstHitRate:   e.learning.FirstHitRate,
		},
		Biases: make(map[model.Outcome]float64, len(e.biases)),
		TemporalPatterns: temporalDoc{
			Hourly: make(map[int]bucketDoc, len(e.temporal.Hourly)),
			Daily:  make(map[int]bucketDoc, len(e.temporal.Daily)),
		},
		Anomalies: anomalyDoc{
			Count:        e.anomalies.Count,
			LastDetected: e.anomalies.LastDetected,
			Level:        e.anomalies.Level,
		},
	}
	for o, w := range e.biases {
		doc.Biases[o] = w
	}
	for h, b := range e.temporal.Hourly {
		doc.TemporalPatterns.Hourly[h] = bucketDoc{Total: b.Total, Specials: b.Specials, Trend: b.Trend}
	}
	for d, b := range e.temporal.Daily {
		doc.TemporalPatterns.Daily[d] = bucketDoc{Total: b.Total, Specials: b.Specials, Trend: b.Trend}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Restore заменяет состояние снимком. Каждый раздел читается отдельно: отсутствующий
// или поврежденный раздел заменяется значением по умолчанию, остальные сохраняются.
// Возвращает список разделов, для которых применены значения по умолчанию.
func (e *Engine) Restore(data []byte) []string {
	e.resetState()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return append([]string(nil), allSections...)
	}

	var fallback []string
	if !e.restoreResults(raw[SectionResults]) {
		fallback = append(fallback, SectionResults)
	}
	if !e.restoreLearning(raw[SectionLearning]) {
		fallback = append(fallback, SectionLearning)
	}
	if !e.restoreBiases(raw[SectionBiases]) {
		fallback = append(fallback, SectionBiases)
	}
	if !e.restoreTemporal(raw[SectionTemporal]) {
		fallback = append(fallback, SectionTemporal)
	}
	if !e.restoreAnomalies(raw[SectionAnomaly]) {
		fallback = append(fallback, SectionAnomaly)
	}

	// сохраненный прогноз заменяется пересчитанным по восстановленной истории
	if len(e.history) > 0 {
		e.analyze(e.now())
		e.learning.LastPrediction = cloneOutcomes(e.computed.predictions)
	}
	return fallback
}

func missing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// restoreResults - неизвестные символы отбрасываются, лишние старые записи обрезаются
func (e *Engine) restoreResults(raw json.RawMessage) bool {
	if missing(raw) {
		return false
	}
	var results []string
	if err := json.Unmarshal(raw, &results); err != nil {
		return false
	}
	for _, s := range results {
		if o := model.Outcome(s); o.Valid() {
			e.history = append(e.history, o)
		}
	}
	if limit := e.cfg.MaxHistorySize(); len(e.history) > limit {
		e.history = e.history[:limit]
	}
	return true
}

func (e *Engine) restoreLearning(raw json.RawMessage) bool {
	if missing(raw) {
		return false
	}
	var doc learningDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	if doc.Correct < 0 || doc.Wrong < 0 || !finite(doc.FirstHitRate) {
		return false
	}

	learning := model.LearningRecord{
		Correct:        doc.Correct,
		Wrong:          doc.Wrong,
		LastPrediction: make([]model.Outcome, 0, len(doc.LastPrediction)),
		FirstHitRate:   doc.FirstHitRate,
	}
	for _, o := range doc.LastPrediction {
		if !o.Valid() {
			// прогноз с неизвестным символом оценивать нельзя
			learning.LastPrediction = learning.LastPrediction[:0]
			break
		}
		learning.LastPrediction = append(learning.LastPrediction, o)
	}
	e.learning = learning
	return true
}

// restoreBiases - отсутствующие символы получают 1.0, любой неположительный вес
// делает раздел поврежденным
func (e *Engine) restoreBiases(raw json.RawMessage) bool {
	if missing(raw) {
		return false
	}
	var doc map[string]float64
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}

	biases := model.NewBiasTable()
	for key, w := range doc {
		o := model.Outcome(key)
		if !o.Valid() {
			continue
		}
		if w <= 0 || !finite(w) {
			return false
		}
		biases[o] = w
	}
	e.biases = biases
	return true
}

func (e *Engine) restoreTemporal(raw json.RawMessage) bool {
	if missing(raw) {
		return false
	}
	var doc temporalDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}

	temporal := model.NewTemporalTable()
	copyBuckets(temporal.Hourly, doc.Hourly, 24)
	copyBuckets(temporal.Daily, doc.Daily, 7)
	e.temporal = temporal
	return true
}

// copyBuckets переносит только корзины с допустимым ключом и согласованными счетчиками
func copyBuckets(dst map[int]*model.TemporalBucket, src map[int]bucketDoc, keys int) {
	for k, b := range src {
		if k < 0 || k >= keys || b.Total < 0 || b.Specials < 0 || b.Specials > b.Total {
			continue
		}
		trend := b.Trend
		if trend != model.TrendDelivery && trend != model.TrendDrain {
			trend = model.TrendNeutral
		}
		dst[k] = &model.TemporalBucket{Total: b.Total, Specials: b.Specials, Trend: trend}
	}
}

func (e *Engine) restoreAnomalies(raw json.RawMessage) bool {
	if missing(raw) {
		return false
	}
	var doc anomalyDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	if doc.Count < 0 {
		return false
	}

	level := doc.Level
	if level != model.SeverityLow && level != model.SeverityMedium && level != model.SeverityHigh {
		level = severity(doc.Count)
	}
	e.anomalies = model.AnomalyState{
		Count:        doc.Count,
		LastDetected: doc.LastDetected,
		Level:        level,
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
