// =============================
// File: internal/engine/sender.go
// =============================
package engine

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain"
)

// Sender отправляет байты подписанной транзакции на RPC-ноду. Отправка
// идемпотентна с точки зрения вызывающей стороны: id транзакции выводится
// из её содержимого, поэтому повторная рассылка тех же байтов — это
// дублирование доставки, а не новое экономическое действие.
type Sender struct {
	client blockchain.Client
	logger *zap.Logger
}

func NewSender(client blockchain.Client, logger *zap.Logger) *Sender {
	return &Sender{
		client: client,
		logger: logger.Named("sender"),
	}
}

// Submit отправляет сырые байты с опциями и классифицирует ошибку:
// отказ ноды (RPC-ответ с ошибкой) против транспортного сбоя.
func (s *Sender) Submit(ctx context.Context, rawTx []byte, opts *Options) (solana.Signature, error) {
	sig, err := s.client.SendRawTransaction(ctx, rawTx, blockchain.TransactionOptions{
		SkipPreflight:       opts.Send.SkipPreflight,
		PreflightCommitment: opts.Commitment.ToRPC(),
		MaxRetries:          opts.Send.MaxNodeRetries,
	})
	if err != nil {
		return solana.Signature{}, classifySubmitError(err)
	}
	return sig, nil
}

func classifySubmitError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return &SwapError{Code: CodeRejectedByNode, Detail: rpcErr.Message, Err: err}
	}
	return &SwapError{Code: CodeTransportError, Detail: "broadcast failed", Err: err}
}
