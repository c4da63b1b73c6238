// =============================
// File: internal/engine/errors.go
// =============================
package engine

import (
	"errors"
	"fmt"
)

// ErrorCode — категория терминальной ошибки свапа.
type ErrorCode string

const (
	// CodeMalformedPayload — ответ агрегатора не декодируется в транзакцию.
	CodeMalformedPayload ErrorCode = "malformed_payload"
	// CodeSigningError — локальная ошибка ключа или подписания.
	CodeSigningError ErrorCode = "signing_error"
	// CodeTransportError — сбой сети или RPC-вызова.
	CodeTransportError ErrorCode = "transport_error"
	// CodeRejectedByNode — нода отказала транзакции (например, preflight-симуляция).
	CodeRejectedByNode ErrorCode = "rejected_by_node"
	// CodeOnChainFailure — транзакция попала в сеть, но исполнилась с ошибкой.
	CodeOnChainFailure ErrorCode = "on_chain_failure"
	// CodeExpired — окно валидности blockhash истекло до подтверждения.
	CodeExpired ErrorCode = "expired"
	// CodeTimedOut — исчерпан бюджет ожидания вызывающей стороны.
	CodeTimedOut ErrorCode = "timed_out"
)

// SwapError — категоризованная ошибка свапа. Для многошаговых маршрутов
// Step указывает индекс шага, на котором исполнение оборвалось.
type SwapError struct {
	Code   ErrorCode
	Step   int
	Detail string
	Err    error
}

func (e *SwapError) Error() string {
	msg := fmt.Sprintf("swap step %d failed [%s]", e.Step, e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SwapError) Unwrap() error {
	return e.Err
}

// CodeOf возвращает категорию ошибки либо пустую строку, если ошибка
// не является ошибкой свапа.
func CodeOf(err error) ErrorCode {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr.Code
	}
	return ""
}

// IsExpired отличает истечение окна валидности от таймаута ожидания.
func IsExpired(err error) bool {
	return CodeOf(err) == CodeExpired
}

// IsTimedOut сообщает, что исчерпан бюджет ожидания, но транзакция
// формально ещё могла попасть в сеть.
func IsTimedOut(err error) bool {
	return CodeOf(err) == CodeTimedOut
}

// IsOnChainFailure сообщает, что транзакция легла в блок с ошибкой исполнения.
func IsOnChainFailure(err error) bool {
	return CodeOf(err) == CodeOnChainFailure
}

// tagStep помечает ошибку индексом шага маршрута.
func tagStep(err error, step int) error {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		swapErr.Step = step
		return err
	}
	return &SwapError{Code: CodeTransportError, Step: step, Err: err}
}
