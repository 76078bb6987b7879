package wheel

import (
	"fmt"
	"time"

	"wheel_predictor/internal/config"
	"wheel_predictor/internal/model"
)

// Engine - движок прогнозов: история, обучение весов, аномалии и временные корзины.
// Не безопасен для конкурентного использования, вызывающий код сериализует доступ.
type Engine struct {
	cfg config.EngineConfig
	now func() time.Time

	history   []model.Outcome // от новых к старым
	learning  model.LearningRecord
	biases    model.BiasTable
	temporal  model.TemporalTable
	anomalies model.AnomalyState

	// Кэш производных данных, сбрасывается при каждом изменении состояния
	computed *computed
	// Распределение до последнего изменения, для индикаторов тренда
	previous model.ProbabilityDistribution
}

type computed struct {
	distribution model.ProbabilityDistribution
	predictions  []model.Outcome
	pattern      model.PatternState
	stats        map[model.Outcome]model.SymbolStat
	trends       map[model.Outcome]model.ProbabilityTrend
	at           time.Time
}

// NewEngine создает движок с состоянием по умолчанию. now == nil означает time.Now
func NewEngine(cfg config.EngineConfig, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	e := &Engine{
		cfg: cfg,
		now: now,
	}
	e.resetState()
	return e
}

func (e *Engine) resetState() {
	e.history = make([]model.Outcome, 0)
	e.learning = model.LearningRecord{LastPrediction: []model.Outcome{}}
	e.biases = model.NewBiasTable()
	e.temporal = model.NewTemporalTable()
	e.anomalies = model.NewAnomalyState()
	e.computed = nil
	e.previous = nil
}

// Ingest добавляет новый исход и пересчитывает все состояние.
// Неизвестный символ отклоняется без изменений.
func (e *Engine) Ingest(outcome model.Outcome) (model.IngestResult, error) {
	if !outcome.Valid() {
		return model.IngestResult{}, fmt.Errorf("%w: %q", model.ErrUnknownOutcome, string(outcome))
	}

	now := e.now()
	var res model.IngestResult

	// 1. Оценка прошлого прогноза (до добавления в историю)
	res.Evaluated, res.Hit = e.evaluatePrediction(outcome)

	// 2. Добавление в историю с ограничением размера
	e.push(outcome)

	// 3. Аномалии
	res.AnomalyDetected = e.detectAnomaly(now)

	// 4. Статистика, паттерн, новый прогноз
	e.analyze(now)
	e.learning.LastPrediction = cloneOutcomes(e.computed.predictions)

	// 5. Временные корзины
	e.updateTemporal(outcome, now)

	res.Analysis = e.analysisAt(now)
	return res, nil
}

// push добавляет исход в начало истории, старые записи вытесняются
func (e *Engine) push(outcome model.Outcome) {
	e.history = append(e.history, "")
	copy(e.history[1:], e.history)
	e.history[0] = outcome

	if limit := e.cfg.MaxHistorySize(); len(e.history) > limit {
		clear(e.history[limit:])
		e.history = e.history[:limit]
	}
}

// analyze пересчитывает производные данные по текущей истории
func (e *Engine) analyze(now time.Time) {
	if e.computed != nil {
		e.previous = e.computed.distribution
	}
	if len(e.history) == 0 {
		e.computed = nil
		return
	}

	pattern := analyzePattern(e.history)
	pred := e.predict(pattern.Label, now)

	e.computed = &computed{
		distribution: pred.distribution,
		predictions:  pred.top,
		pattern:      pattern,
		stats:        calculateStats(e.history),
		trends:       calculateTrends(pred.distribution, e.previous),
		at:           now,
	}
}

// Analysis возвращает копию текущего производного состояния
func (e *Engine) Analysis() model.Analysis {
	return e.analysisAt(e.now())
}

func (e *Engine) analysisAt(now time.Time) model.Analysis {
	a := model.Analysis{
		Pattern:     model.PatternState{Label: model.PatternUnknown},
		Predictions: []model.Outcome{},
		Temporal:    e.temporalSummary(now),
		Anomalies:   cloneAnomalies(e.anomalies),
		Learning:    cloneLearning(e.learning),
		HistorySize: len(e.history),
		Recent:      cloneOutcomes(e.history[:min(recentShown, len(e.history))]),
	}
	if e.computed == nil {
		return a
	}

	a.Distribution = make(model.ProbabilityDistribution, len(e.computed.distribution))
	for o, p := range e.computed.distribution {
		a.Distribution[o] = p
	}
	a.Predictions = cloneOutcomes(e.computed.predictions)
	a.Pattern = e.computed.pattern
	a.Stats = make(map[model.Outcome]model.SymbolStat, len(e.computed.stats))
	for o, s := range e.computed.stats {
		a.Stats[o] = s
	}
	a.Trends = make(map[model.Outcome]model.ProbabilityTrend, len(e.computed.trends))
	for o, t := range e.computed.trends {
		a.Trends[o] = t
	}
	a.UpdatedAt = e.computed.at
	return a
}

// Reset возвращает все состояние к значениям по умолчанию
func (e *Engine) Reset() {
	e.resetState()
}

// History возвращает копию истории, от новых к старым
func (e *Engine) History() []model.Outcome {
	return cloneOutcomes(e.history)
}

// Biases возвращает копию таблицы весов
func (e *Engine) Biases() model.BiasTable {
	return e.biases.Clone()
}

// Temporal возвращает копию временных корзин
func (e *Engine) Temporal() model.TemporalTable {
	return e.temporal.Clone()
}

// сколько последних исходов отдавать в Analysis
const recentShown = 50

func cloneOutcomes(src []model.Outcome) []model.Outcome {
	dst := make([]model.Outcome, len(src))
	copy(dst, src)
	return dst
}

func cloneLearning(l model.LearningRecord) model.LearningRecord {
	l.LastPrediction = cloneOutcomes(l.LastPrediction)
	return l
}

func cloneAnomalies(a model.AnomalyState) model.AnomalyState {
	if a.LastDetected != nil {
		t := *a.LastDetected
		a.LastDetected = &t
	}
	return a
}
