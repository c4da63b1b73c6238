// internal/types/priority.go
package types

import (
	"strconv"
	"strings"
)

// PriorityFee описывает предпочтение по приоритетной комиссии, которое
// передаётся агрегатору маршрутов. Сервис либо сам подбирает комиссию
// ("auto"), либо использует фиксированное значение в SOL.
type PriorityFee struct {
	auto  bool
	value float64
}

// AutoPriorityFee — сервис сам подбирает комиссию по загрузке сети.
func AutoPriorityFee() PriorityFee {
	return PriorityFee{auto: true}
}

// PriorityFeeSOL — фиксированная приоритетная комиссия в SOL.
func PriorityFeeSOL(v float64) PriorityFee {
	return PriorityFee{value: v}
}

// IsZero сообщает, задано ли предпочтение вообще.
func (p PriorityFee) IsZero() bool {
	return !p.auto && p.value == 0
}

// QueryValue возвращает значение в том виде, в котором его ожидает
// query-параметр swap API: "auto" либо десятичное число.
func (p PriorityFee) QueryValue() string {
	if p.auto {
		return "auto"
	}
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

// ParsePriorityFee разбирает значение из конфигурации: "auto", пустая
// строка (нет предпочтения) или число в SOL.
func ParsePriorityFee(s string) (PriorityFee, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityFee{}, nil
	}
	if strings.EqualFold(s, "auto") {
		return AutoPriorityFee(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return PriorityFee{}, err
	}
	return PriorityFeeSOL(v), nil
}
