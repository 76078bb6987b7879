package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"wheel_predictor/internal/config"
)

// Значения по умолчанию для движка
const (
	defaultMaxHistorySize   = 10000
	defaultLearningRateUp   = 0.10
	defaultLearningRateDown = 0.08
	defaultAnomalyThreshold = 0.75
	defaultMaxConfidence    = 85
	defaultUpdateInterval   = 120 * time.Second
)

type engineFile struct {
	Engine engineYAML `yaml:"engine"`
}

type engineYAML struct {
	MaxHistorySize   *int           `yaml:"max_history_size"`
	LearningRateUp   *float64       `yaml:"learning_rate_up"`
	LearningRateDown *float64       `yaml:"learning_rate_down"`
	AnomalyThreshold *float64       `yaml:"anomaly_threshold"`
	MaxConfidence    *float64       `yaml:"max_confidence"`
	UpdateInterval   *time.Duration `yaml:"update_interval"`
}

type engineConfig struct {
	maxHistorySize   int
	learningRateUp   float64
	learningRateDown float64
	anomalyThreshold float64
	maxConfidence    float64
	updateInterval   time.Duration
}

// DefaultEngineConfig - настройки без файла
func DefaultEngineConfig() config.EngineConfig {
	return defaultEngineConfig()
}

func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxHistorySize:   defaultMaxHistorySize,
		learningRateUp:   defaultLearningRateUp,
		learningRateDown: defaultLearningRateDown,
		anomalyThreshold: defaultAnomalyThreshold,
		maxConfidence:    defaultMaxConfidence,
		updateInterval:   defaultUpdateInterval,
	}
}

// NewEngineConfigFromYAML читает секцию engine из yaml файла.
// Если файла нет - возвращаются значения по умолчанию, не заданные поля тоже берутся по умолчанию.
func NewEngineConfigFromYAML(path string) (config.EngineConfig, error) {
	cfg := defaultEngineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read engine config: %w", err)
	}

	var file engineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse engine config: %w", err)
	}

	y := file.Engine
	if y.MaxHistorySize != nil {
		cfg.maxHistorySize = *y.MaxHistorySize
	}
	if y.LearningRateUp != nil {
		cfg.learningRateUp = *y.LearningRateUp
	}
	if y.LearningRateDown != nil {
		cfg.learningRateDown = *y.LearningRateDown
	}
	if y.AnomalyThreshold != nil {
		cfg.anomalyThreshold = *y.AnomalyThreshold
	}
	if y.MaxConfidence != nil {
		cfg.maxConfidence = *y.MaxConfidence
	}
	if y.UpdateInterval != nil {
		cfg.updateInterval = *y.UpdateInterval
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewEngineConfig собирает конфиг вручную (тесты, replay)
func NewEngineConfig(maxHistory int, rateUp, rateDown, anomalyThreshold, maxConfidence float64, interval time.Duration) (config.EngineConfig, error) {
	cfg := &engineConfig{
		maxHistorySize:   maxHistory,
		learningRateUp:   rateUp,
		learningRateDown: rateDown,
		anomalyThreshold: anomalyThreshold,
		maxConfidence:    maxConfidence,
		updateInterval:   interval,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *engineConfig) validate() error {
	if cfg.maxHistorySize <= 0 {
		return fmt.Errorf("max_history_size must be positive, got %d", cfg.maxHistorySize)
	}
	if cfg.learningRateUp < 0 {
		return fmt.Errorf("learning_rate_up must not be negative, got %v", cfg.learningRateUp)
	}
	// при 1.0 вес символа обнулится
	if cfg.learningRateDown < 0 || cfg.learningRateDown >= 1 {
		return fmt.Errorf("learning_rate_down must be in [0, 1), got %v", cfg.learningRateDown)
	}
	if cfg.maxConfidence <= 0 || cfg.maxConfidence > 100 {
		return fmt.Errorf("max_confidence must be in (0, 100], got %v", cfg.maxConfidence)
	}
	if cfg.updateInterval <= 0 {
		return fmt.Errorf("update_interval must be positive, got %v", cfg.updateInterval)
	}
	return nil
}

func (cfg *engineConfig) MaxHistorySize() int {
	return cfg.maxHistorySize
}

func (cfg *engineConfig) LearningRateUp() float64 {
	return cfg.learningRateUp
}

func (cfg *engineConfig) LearningRateDown() float64 {
	return cfg.learningRateDown
}

func (cfg *engineConfig) AnomalyThreshold() float64 {
	return cfg.anomalyThreshold
}

func (cfg *engineConfig) MaxConfidence() float64 {
	return cfg.maxConfidence
}

func (cfg *engineConfig) UpdateInterval() time.Duration {
	return cfg.updateInterval
}
