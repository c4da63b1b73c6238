// internal/types/commitment.go
package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
)

// Commitment определяет уровень финализации, при котором транзакция
// считается подтверждённой сетью.
type Commitment string

const (
	// CommitmentProcessed — транзакция обработана лидером текущего слота.
	CommitmentProcessed Commitment = "processed"
	// CommitmentConfirmed — транзакция подтверждена супербольшинством кластера.
	CommitmentConfirmed Commitment = "confirmed"
	// CommitmentFinalized — транзакция финализирована и не может быть откатана.
	CommitmentFinalized Commitment = "finalized"
)

// ParseCommitment валидирует строковое значение commitment из конфигурации.
// Пустая строка трактуется как CommitmentConfirmed.
func ParseCommitment(s string) (Commitment, error) {
	switch Commitment(s) {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return Commitment(s), nil
	case "":
		return CommitmentConfirmed, nil
	default:
		return "", fmt.Errorf("invalid commitment: %q", s)
	}
}

// Level возвращает позицию уровня в лестнице финализации:
// processed < confirmed < finalized.
func (c Commitment) Level() int {
	switch c {
	case CommitmentProcessed:
		return 0
	case CommitmentConfirmed:
		return 1
	case CommitmentFinalized:
		return 2
	default:
		return 1
	}
}

// ToRPC конвертирует уровень в тип rpc-клиента.
func (c Commitment) ToRPC() rpc.CommitmentType {
	switch c {
	case CommitmentProcessed:
		return rpc.CommitmentProcessed
	case CommitmentFinalized:
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

// ReachedBy сообщает, достигает ли наблюдаемый статус подтверждения
// запрошенного уровня. Статусы сравниваются по лестнице финализации,
// то есть finalized удовлетворяет запросу confirmed.
func (c Commitment) ReachedBy(status rpc.ConfirmationStatusType) bool {
	return confirmationLevel(status) >= c.Level()
}

func confirmationLevel(status rpc.ConfirmationStatusType) int {
	switch status {
	case rpc.ConfirmationStatusProcessed:
		return 0
	case rpc.ConfirmationStatusConfirmed:
		return 1
	case rpc.ConfirmationStatusFinalized:
		return 2
	default:
		return -1
	}
}
