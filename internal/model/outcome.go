package model

import (
	"fmt"
	"strings"
)

// Outcome - один исход колеса (символ из фиксированного алфавита)
type Outcome string

const (
	One       Outcome = "1"
	Two       Outcome = "2"
	Five      Outcome = "5"
	Ten       Outcome = "10"
	CoinFlip  Outcome = "C"
	Pachinko  Outcome = "P"
	CashHunt  Outcome = "H"
	CrazyTime Outcome = "CT"
)

// SymbolsLen - размер алфавита колеса
const SymbolsLen = 8

// Alphabet задает канонический порядок символов.
// Этот порядок используется при равенстве вероятностей.
var Alphabet = [SymbolsLen]Outcome{One, Two, Five, Ten, CoinFlip, Pachinko, CashHunt, CrazyTime}

var names = map[Outcome]string{
	One:       "Number 1",
	Two:       "Number 2",
	Five:      "Number 5",
	Ten:       "Number 10",
	CoinFlip:  "Coin Flip",
	Pachinko:  "Pachinko",
	CashHunt:  "Cash Hunt",
	CrazyTime: "Crazy Time",
}

// aliases - варианты написания, которые встречаются во внешних лентах результатов
var aliases = map[string]Outcome{
	"1": One, "one": One, "number_1": One, "segment_1": One, "number 1": One, "segment 1": One,
	"2": Two, "two": Two, "number_2": Two, "segment_2": Two, "number 2": Two, "segment 2": Two,
	"5": Five, "five": Five, "number_5": Five, "segment_5": Five, "number 5": Five, "segment 5": Five,
	"10": Ten, "ten": Ten, "number_10": Ten, "segment_10": Ten, "number 10": Ten, "segment 10": Ten,
	"c": CoinFlip, "cf": CoinFlip, "coin flip": CoinFlip, "coin_flip": CoinFlip, "coinflip": CoinFlip, "flip": CoinFlip,
	"p": Pachinko, "pach": Pachinko, "pachinko": Pachinko,
	"h": CashHunt, "ch": CashHunt, "hunt": CashHunt, "cash hunt": CashHunt, "cash_hunt": CashHunt, "cashhunt": CashHunt,
	"ct": CrazyTime, "crazy time": CrazyTime, "crazy_time": CrazyTime, "crazytime": CrazyTime,
}

// Valid сообщает, входит ли символ в алфавит
func (o Outcome) Valid() bool {
	_, ok := names[o]
	return ok
}

// IsSpecial - любой исход кроме четырех числовых
func (o Outcome) IsSpecial() bool {
	switch o {
	case One, Two, Five, Ten:
		return false
	}
	return true
}

// Name возвращает полное название исхода
func (o Outcome) Name() string {
	if n, ok := names[o]; ok {
		return n
	}
	return string(o)
}

// ParseOutcome строго проверяет символ алфавита
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
	return o, nil
}

// LookupOutcome принимает символ или одно из известных названий целиком ("CT", "Cash Hunt", "number_5").
// Поиск внутри текста не выполняется, используется для ввода оператора
func LookupOutcome(s string) (Outcome, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if o, ok := aliases[text]; ok {
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
}

// NormalizeOutcome приводит произвольное название из внешней ленты ("cash hunt", "Number 5", "CT") к символу.
// Сначала точное совпадение, затем поиск алиаса внутри текста.
func NormalizeOutcome(s string) (Outcome, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownOutcome)
	}
	if o, ok := aliases[text]; ok {
		return o, nil
	}
	if strings.Contains(text, "tracker") || strings.Contains(text, "statistics") {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
	// Длинные алиасы проверяем первыми, иначе "1" найдется внутри "10"
	// при равной длине побеждает меньший ключ, чтобы результат не зависел от порядка обхода map
	var best Outcome
	bestKey := ""
	for key, o := range aliases {
		if len(key) < 3 || len(key) < len(bestKey) {
			continue
		}
		if len(key) == len(bestKey) && key > bestKey {
			continue
		}
		if strings.Contains(text, key) {
			best, bestKey = o, key
		}
	}
	if bestKey == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, s)
	}
	return best, nil
}
