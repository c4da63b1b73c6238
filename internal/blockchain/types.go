// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TransactionOptions определяет опции для отправки сырых транзакций.
type TransactionOptions struct {
	// SkipPreflight отключает симуляцию транзакции на ноде перед приёмом.
	SkipPreflight bool
	// PreflightCommitment — уровень финализации для preflight-симуляции.
	PreflightCommitment rpc.CommitmentType
	// MaxRetries — сколько раз сама нода повторяет рассылку лидерам.
	// nil означает поведение ноды по умолчанию.
	MaxRetries *uint
}

// Blockhash — последний blockhash вместе с высотой блока, после которой
// привязанная к нему транзакция перестаёт приниматься сетью.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Client определяет общий интерфейс для взаимодействия с блокчейном.
// За этой границей движок подтверждения тестируется на детерминированных
// фейках без сети.
type Client interface {
	// Получить последний blockhash с окном валидности.
	GetLatestBlockhash(ctx context.Context) (Blockhash, error)
	// Отправить сырые байты подписанной транзакции.
	SendRawTransaction(ctx context.Context, txBytes []byte, opts TransactionOptions) (solana.Signature, error)
	// Получить статусы подписей транзакций.
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	// Получить текущую высоту блока.
	GetBlockHeight(ctx context.Context) (uint64, error)
	// Получить баланс аккаунта в лампортах.
	GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error)
}
