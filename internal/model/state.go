package model

import "time"

// Метки паттерна (режима) по доле специальных исходов
const (
	PatternUnknown              = "Unknown"
	PatternBasicDrain           = "Basic Drain"
	PatternProlongedDrain       = "Prolonged Drain"
	PatternReactiveManipulation = "Reactive Manipulation"
	PatternCalculatedDelivery   = "Calculated Delivery"
	PatternEmotionalDelivery    = "Emotional Delivery"
)

// Метки временного тренда корзины
const (
	TrendDelivery = "Delivery"
	TrendDrain    = "Drain"
	TrendNeutral  = "Neutral"
)

// Уровни аномалий
const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// Направление изменения вероятности относительно прошлого расчета
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// BiasTable - мультипликативный вес на каждый символ
type BiasTable map[Outcome]float64

// NewBiasTable возвращает нейтральную таблицу (1.0 на символ)
func NewBiasTable() BiasTable {
	t := make(BiasTable, SymbolsLen)
	for _, o := range Alphabet {
		t[o] = 1.0
	}
	return t
}

func (t BiasTable) Clone() BiasTable {
	c := make(BiasTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// LearningRecord - статистика попаданий первого символа прогноза
type LearningRecord struct {
	Correct        int
	Wrong          int
	LastPrediction []Outcome // top-3 последнего прогноза, пусто если прогноза не было
	FirstHitRate   float64   // процент
}

// PatternState - производное состояние, не хранится
type PatternState struct {
	Label     string
	Intensity int
	Duration  int
	Stability int
}

// TemporalBucket - накопитель по часу суток или дню недели
type TemporalBucket struct {
	Total    int
	Specials int
	Trend    string
}

// TemporalTable - часы 0..23 и дни недели 0..6 (0 = воскресенье)
type TemporalTable struct {
	Hourly map[int]*TemporalBucket
	Daily  map[int]*TemporalBucket
}

func NewTemporalTable() TemporalTable {
	return TemporalTable{
		Hourly: make(map[int]*TemporalBucket),
		Daily:  make(map[int]*TemporalBucket),
	}
}

func (t TemporalTable) Clone() TemporalTable {
	c := NewTemporalTable()
	for h, b := range t.Hourly {
		cp := *b
		c.Hourly[h] = &cp
	}
	for d, b := range t.Daily {
		cp := *b
		c.Daily[d] = &cp
	}
	return c
}

// AnomalyState - накопленные аномалии. Count только растет.
type AnomalyState struct {
	Count        int
	LastDetected *time.Time
	Level        string
}

func NewAnomalyState() AnomalyState {
	return AnomalyState{Level: SeverityLow}
}

// ProbabilityDistribution - вероятности в процентах, после ограничения сверху
type ProbabilityDistribution map[Outcome]float64

// SymbolStat - сколько раз символ встретился в истории
type SymbolStat struct {
	Count      int
	Percentage float64
}

// ProbabilityTrend - изменение вероятности символа между двумя расчетами
type ProbabilityTrend struct {
	Direction string
	Delta     float64
}

// TemporalSummary - тренд и уверенность для текущего часа и дня
type TemporalSummary struct {
	Hour           int
	Day            int
	HourTrend      string
	HourConfidence int
	DayTrend       string
	DayConfidence  int
}

// Analysis - все, что движок отдает наружу после изменения состояния
type Analysis struct {
	Distribution ProbabilityDistribution
	Predictions  []Outcome
	Pattern      PatternState
	Stats        map[Outcome]SymbolStat
	Trends       map[Outcome]ProbabilityTrend
	Temporal     TemporalSummary
	Anomalies    AnomalyState
	Learning     LearningRecord
	HistorySize  int
	Recent       []Outcome
	UpdatedAt    time.Time
}

// IngestResult - результат добавления одного исхода
type IngestResult struct {
	Analysis        Analysis
	Evaluated       bool // был ли прошлый прогноз для оценки
	Hit             bool // первый символ прошлого прогноза совпал
	AnomalyDetected bool
}

// ReconcileResult - результат сверки пачки внешних результатов с историей
type ReconcileResult struct {
	Ingested  []Outcome // новые исходы в порядке добавления (от старых к новым)
	Hits      int
	Misses    int
	Anomalies int
	Analysis  Analysis
}

// Статусы опроса внешнего источника
const (
	PollOnline   = "online"
	PollOffline  = "offline"
	PollUpdating = "updating"
	PollStopped  = "stopped"
)

// PollStatus - состояние опроса внешнего источника результатов
type PollStatus struct {
	State      string
	Running    bool
	LastUpdate *time.Time
	LastError  string
	Ingested   int
}

// StoreStatus - состояние сохранения снимков
type StoreStatus struct {
	Healthy        bool
	LastSaved      *time.Time
	LastError      string
	LoggedOutcomes int // записей в журнале исходов
}

// Источники исходов в журнале
const (
	SourceManual = "manual"
	SourceBatch  = "batch"
	SourcePoll   = "poll"
	SourceReplay = "replay"
)
