package wheel

import "time"

type IngestRequest struct {
	Symbol string `json:"symbol"` // Символ или название ("CT", "Crazy Time")
}

type BatchRequest struct {
	Results []string `json:"results"` // От новых к старым
}

type PredictionItem struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"` // В процентах
}

type PatternResponse struct {
	Label     string `json:"label"`
	Intensity int    `json:"intensity"`
	Duration  int    `json:"duration"`
	Stability int    `json:"stability"`
}

type StatResponse struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type TrendResponse struct {
	Direction string  `json:"direction"` // up, down, flat
	Delta     float64 `json:"delta"`
}

type TemporalResponse struct {
	Hour           int    `json:"hour"`
	Day            int    `json:"day"` // 0 - воскресенье
	HourTrend      string `json:"hour_trend"`
	HourConfidence int    `json:"hour_confidence"`
	DayTrend       string `json:"day_trend"`
	DayConfidence  int    `json:"day_confidence"`
}

type AnomalyResponse struct {
	Count        int        `json:"count"`
	LastDetected *time.Time `json:"last_detected"`
	Level        string     `json:"level"`
}

type LearningResponse struct {
	Correct        int      `json:"correct"`
	Wrong          int      `json:"wrong"`
	FirstHitRate   float64  `json:"first_hit_rate"`
	LastPrediction []string `json:"last_prediction"`
}

type AnalysisResponse struct {
	Distribution map[string]float64       `json:"distribution"`
	Predictions  []PredictionItem         `json:"predictions"`
	Pattern      PatternResponse          `json:"pattern"`
	Stats        map[string]StatResponse  `json:"stats"`
	Trends       map[string]TrendResponse `json:"trends"`
	Temporal     TemporalResponse         `json:"temporal"`
	Anomalies    AnomalyResponse          `json:"anomalies"`
	Learning     LearningResponse         `json:"learning"`
	HistorySize  int                      `json:"history_size"`
	Recent       []string                 `json:"recent"` // Последние исходы, от новых к старым
	UpdatedAt    *time.Time               `json:"updated_at"`
}

type IngestResponse struct {
	Evaluated       bool             `json:"evaluated"`
	Hit             bool             `json:"hit"`
	AnomalyDetected bool             `json:"anomaly_detected"`
	Analysis        AnalysisResponse `json:"analysis"`
}

type BatchResponse struct {
	Ingested  []string         `json:"ingested"` // От старых к новым
	Hits      int              `json:"hits"`
	Misses    int              `json:"misses"`
	Anomalies int              `json:"anomalies"`
	Analysis  AnalysisResponse `json:"analysis"`
}

type RestoreResponse struct {
	Defaults []string         `json:"defaults"` // Разделы снимка, замененные значениями по умолчанию
	Analysis AnalysisResponse `json:"analysis"`
}

type StoreResponse struct {
	Healthy   bool       `json:"healthy"`
	LastSaved *time.Time `json:"last_saved"`
	LastError string     `json:"last_error,omitempty"`
	Logged    int        `json:"logged_outcomes"` // Размер журнала исходов
}
