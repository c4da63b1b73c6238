// =============================
// File: internal/engine/engine.go
// =============================
package engine

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain"
	"github.com/YZYLAB/solana-swap-go/internal/types"
	"github.com/YZYLAB/solana-swap-go/internal/wallet"
)

// Engine — оркестратор свапа: сборка → подпись → отправка → ожидание
// подтверждения, шаг за шагом для многошаговых маршрутов.
type Engine struct {
	builder    *Builder
	sender     *Sender
	supervisor *Supervisor
	wallet     *wallet.Wallet
	logger     *zap.Logger
}

func New(client blockchain.Client, w *wallet.Wallet, logger *zap.Logger) *Engine {
	sender := NewSender(client, logger)
	return &Engine{
		builder:    NewBuilder(client, logger),
		sender:     sender,
		supervisor: NewSupervisor(client, sender, logger),
		wallet:     w,
		logger:     logger.Named("engine"),
	}
}

// PerformSwap исполняет набор инструкций агрегатора и возвращает подпись
// последней подтверждённой транзакции маршрута. Каждый шаг должен достичь
// запрошенного уровня финализации до начала сборки следующего; ошибка
// любого шага обрывает остаток маршрута и помечается индексом шага.
func (e *Engine) PerformSwap(ctx context.Context, set types.InstructionSet, opts *Options) (solana.Signature, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return solana.Signature{}, err
	}
	if set.Empty() {
		return solana.Signature{}, &SwapError{Code: CodeMalformedPayload, Detail: "instruction set is empty"}
	}

	var last solana.Signature
	for i, blob := range set.Transactions {
		sig, err := e.performStep(ctx, blob, opts)
		if err != nil {
			return solana.Signature{}, tagStep(err, i)
		}
		last = sig

		if len(set.Transactions) > 1 {
			e.logger.Info("Route step confirmed",
				zap.Int("step", i),
				zap.Int("total_steps", len(set.Transactions)),
				zap.String("signature", sig.String()))
		}
	}
	return last, nil
}

func (e *Engine) performStep(ctx context.Context, blob string, opts *Options) (solana.Signature, error) {
	unsigned, err := e.builder.Build(ctx, blob, e.wallet.PublicKey)
	if err != nil {
		return solana.Signature{}, err
	}

	signed, err := Sign(unsigned, e.wallet)
	if err != nil {
		return solana.Signature{}, err
	}

	log := e.logger.With(zap.String("signature", signed.Signature.String()))

	// Первая отправка. Отказ ноды фатален; транспортный сбой — нет:
	// цикл рассылки доставит те же байты повторно.
	if _, err := e.sender.Submit(ctx, signed.Raw, opts); err != nil {
		if CodeOf(err) == CodeRejectedByNode || opts.SkipConfirmationCheck {
			return solana.Signature{}, err
		}
		log.Warn("Initial broadcast failed, relying on resend loop", zap.Error(err))
	}

	if opts.SkipConfirmationCheck {
		log.Info("Broadcast accepted, confirmation check skipped")
		return signed.Signature, nil
	}

	if err := e.supervisor.Await(ctx, signed, opts); err != nil {
		return solana.Signature{}, err
	}

	log.Info("Transaction confirmed", zap.String("commitment", string(opts.Commitment)))
	return signed.Signature, nil
}
