package model

import "wheel_predictor/internal/model"

// BaseTable - базовые вероятности (в процентах) для паттерна
type BaseTable map[model.Outcome]float64

// Базовые таблицы по паттернам. Подобраны вручную.
var (
	BasicDrainTable = BaseTable{
		model.One: 40, model.Two: 30, model.Five: 15, model.Ten: 8,
		model.CoinFlip: 3, model.Pachinko: 2, model.CashHunt: 1.5, model.CrazyTime: 0.5,
	}
	ProlongedDrainTable = BaseTable{
		model.One: 35, model.Two: 30, model.Five: 20, model.Ten: 8,
		model.CoinFlip: 3, model.Pachinko: 2, model.CashHunt: 1.5, model.CrazyTime: 0.5,
	}
	// После недавнего Crazy Time повтор менее вероятен
	ReactiveAfterBigTable = BaseTable{
		model.One: 35, model.Two: 30, model.Five: 15, model.Ten: 10,
		model.CoinFlip: 5, model.Pachinko: 2, model.CashHunt: 2, model.CrazyTime: 1,
	}
	ReactiveTable = BaseTable{
		model.One: 30, model.Two: 25, model.Five: 15, model.Ten: 10,
		model.CoinFlip: 10, model.Pachinko: 5, model.CashHunt: 3, model.CrazyTime: 2,
	}
	CalculatedAfterBigTable = BaseTable{
		model.One: 30, model.Two: 25, model.Five: 15, model.Ten: 15,
		model.CoinFlip: 5, model.Pachinko: 3, model.CashHunt: 4, model.CrazyTime: 3,
	}
	CalculatedTable = BaseTable{
		model.One: 25, model.Two: 20, model.Five: 15, model.Ten: 10,
		model.CoinFlip: 10, model.Pachinko: 8, model.CashHunt: 7, model.CrazyTime: 5,
	}
	EmotionalDeliveryTable = BaseTable{
		model.One: 20, model.Two: 15, model.Five: 15, model.Ten: 15,
		model.CoinFlip: 12, model.Pachinko: 10, model.CashHunt: 8, model.CrazyTime: 5,
	}
	FallbackTable = BaseTable{
		model.One: 30, model.Two: 25, model.Five: 15, model.Ten: 10,
		model.CoinFlip: 8, model.Pachinko: 5, model.CashHunt: 4, model.CrazyTime: 3,
	}
)

// Окна поиска "больших" специальных исходов
const (
	ReactiveLookback   = 10
	CalculatedLookback = 5
)

// TemporalAdjustment - множители для тренда корзины
type TemporalAdjustment struct {
	MinTotal int
	Delivery map[model.Outcome]float64
	Drain    map[model.Outcome]float64
}

var (
	HourAdjustment = TemporalAdjustment{
		MinTotal: 10,
		Delivery: map[model.Outcome]float64{
			model.CoinFlip: 1.2, model.Pachinko: 1.3, model.CashHunt: 1.2, model.CrazyTime: 1.4,
		},
		Drain: map[model.Outcome]float64{model.One: 1.2, model.Two: 1.2},
	}
	DayAdjustment = TemporalAdjustment{
		MinTotal: 30,
		Delivery: map[model.Outcome]float64{
			model.CoinFlip: 1.1, model.Pachinko: 1.2, model.CashHunt: 1.1, model.CrazyTime: 1.3,
		},
		Drain: map[model.Outcome]float64{model.One: 1.1, model.Two: 1.1},
	}
)
