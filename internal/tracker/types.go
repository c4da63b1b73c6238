// internal/tracker/types.go
package tracker

import (
	"github.com/YZYLAB/solana-swap-go/internal/types"
)

// SwapRequest описывает запрос маршрута свапа к агрегатору.
type SwapRequest struct {
	// FromToken и ToToken — mint-адреса токенов.
	FromToken string
	ToToken   string
	// Amount — объём обмена в единицах from-токена.
	Amount float64
	// SlippageBps — допустимое проскальзывание в базисных пунктах (100 = 1%).
	SlippageBps int
	// Payer — публичный ключ плательщика комиссии.
	Payer string
	// PriorityFee — предпочтение по приоритетной комиссии.
	PriorityFee types.PriorityFee
	// ForceLegacy просит сервис собрать legacy-транзакцию вместо versioned.
	ForceLegacy bool
	// IncludeDexes / ExcludeDexes — опциональные фильтры по площадкам маршрута.
	IncludeDexes []string
	ExcludeDexes []string
}

// Rate — метаданные маршрута, возвращаемые агрегатором вместе с транзакцией.
type Rate struct {
	AmountIn       float64 `json:"amountIn"`
	AmountOut      float64 `json:"amountOut"`
	MinAmountOut   float64 `json:"minAmountOut"`
	CurrentPrice   float64 `json:"currentPrice"`
	ExecutionPrice float64 `json:"executionPrice"`
	PriceImpact    float64 `json:"priceImpact"`
	Fee            float64 `json:"fee"`
	BaseCurrency   Token   `json:"baseCurrency"`
	QuoteCurrency  Token   `json:"quoteCurrency"`
}

// Token описывает валюту стороны обмена.
type Token struct {
	Decimals int    `json:"decimals"`
	Mint     string `json:"mint"`
}

// RouteHop — один шаг многошагового маршрута.
type RouteHop struct {
	DEX        string `json:"dex"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
}

// SwapResponse — ответ агрегатора: одна или несколько сериализованных
// транзакций плюс метаданные маршрута. Сами блобы остаются непрозрачными
// до сборки транзакции.
type SwapResponse struct {
	// Txn — единственная транзакция однотранзакционного маршрута.
	Txn string `json:"txn"`
	// Txns — упорядоченные транзакции многошагового маршрута; если поле
	// заполнено, Txn игнорируется.
	Txns []string `json:"txns"`
	// TxVersion — "legacy" или "v0".
	TxVersion string `json:"txVersion"`
	// Rate — котировка маршрута.
	Rate Rate `json:"rate"`
	// Route — шаги маршрута, если сервис их сообщает.
	Route []RouteHop `json:"route"`
}

// InstructionSet возвращает блобы транзакций в порядке исполнения.
func (r *SwapResponse) InstructionSet() types.InstructionSet {
	if len(r.Txns) > 0 {
		return types.InstructionSet{Transactions: r.Txns}
	}
	if r.Txn == "" {
		return types.InstructionSet{}
	}
	return types.InstructionSet{Transactions: []string{r.Txn}}
}
