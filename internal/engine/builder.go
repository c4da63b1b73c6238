// =============================
// File: internal/engine/builder.go
// =============================
package engine

import (
	"context"
	"encoding/base64"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain"
)

// UnsignedTransaction — транзакция, привязанная к свежему blockhash и
// плательщику комиссии, но ещё не подписанная.
type UnsignedTransaction struct {
	Tx *solana.Transaction
	// LastValidBlockHeight — высота блока, после которой blockhash
	// транзакции перестаёт приниматься сетью.
	LastValidBlockHeight uint64
}

// Builder собирает подписываемую транзакцию из непрозрачного блоба
// агрегатора. Выполняет ровно одно RPC-чтение (blockhash) на сборку,
// и только после успешного декодирования блоба.
type Builder struct {
	client blockchain.Client
	logger *zap.Logger
}

func NewBuilder(client blockchain.Client, logger *zap.Logger) *Builder {
	return &Builder{
		client: client,
		logger: logger.Named("builder"),
	}
}

// Build декодирует base64-блоб, привязывает свежий blockhash и при
// необходимости подставляет плательщика комиссии вместо плейсхолдера
// (нулевого публичного ключа в позиции fee payer).
func (b *Builder) Build(ctx context.Context, blob string, payer solana.PublicKey) (*UnsignedTransaction, error) {
	if blob == "" {
		return nil, &SwapError{Code: CodeMalformedPayload, Detail: "empty transaction payload"}
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, &SwapError{Code: CodeMalformedPayload, Detail: "payload is not valid base64", Err: err}
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, &SwapError{Code: CodeMalformedPayload, Detail: "payload does not decode into a transaction", Err: err}
	}
	if len(tx.Message.AccountKeys) == 0 {
		return nil, &SwapError{Code: CodeMalformedPayload, Detail: "transaction has no account keys"}
	}

	blockhash, err := b.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, &SwapError{Code: CodeTransportError, Detail: "failed to fetch latest blockhash", Err: err}
	}

	tx.Message.RecentBlockhash = blockhash.Hash
	if tx.Message.AccountKeys[0].IsZero() {
		tx.Message.AccountKeys[0] = payer
	}

	b.logger.Debug("Transaction built",
		zap.String("blockhash", blockhash.Hash.String()),
		zap.Uint64("last_valid_block_height", blockhash.LastValidBlockHeight),
		zap.Int("account_keys", len(tx.Message.AccountKeys)))

	return &UnsignedTransaction{
		Tx:                   tx,
		LastValidBlockHeight: blockhash.LastValidBlockHeight,
	}, nil
}
