// =============================
// File: internal/engine/confirmer.go
// =============================
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain"
)

// Supervisor доводит подписанную транзакцию до терминального исхода:
// подтверждена, истекла, упала он-чейн или исчерпан бюджет ожидания.
// Работают два независимых периодических цикла — повторная рассылка и
// опрос статуса; терминальное решение принимает только цикл опроса,
// поэтому исходы взаимно исключены по построению.
type Supervisor struct {
	client blockchain.Client
	sender *Sender
	logger *zap.Logger
}

func NewSupervisor(client blockchain.Client, sender *Sender, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		client: client,
		sender: sender,
		logger: logger.Named("confirmer"),
	}
}

// Await блокируется до терминального исхода. Возвращает nil при
// подтверждении на запрошенном уровне финализации, иначе SwapError
// с категорией Expired, OnChainFailure или TimedOut. Никогда не висит
// дольше RetryTimeout плюс один интервал опроса.
func (s *Supervisor) Await(ctx context.Context, tx *SignedTransaction, opts *Options) error {
	// Буфер сужает окно валидности, оставляя запас на рассинхрон часов
	// и распространение блоков.
	var expiry uint64
	if tx.LastValidBlockHeight > opts.LastValidBlockHeightBuffer {
		expiry = tx.LastValidBlockHeight - opts.LastValidBlockHeightBuffer
	}

	ctx, cancel := context.WithTimeout(ctx, opts.RetryTimeout)
	defer cancel()

	log := s.logger.With(zap.String("signature", tx.Signature.String()))
	log.Debug("Awaiting confirmation",
		zap.Uint64("expiry_block_height", expiry),
		zap.String("commitment", string(opts.Commitment)))

	g, gctx := errgroup.WithContext(ctx)

	// Рассылка — избыточность на случай потерянных broadcast'ов,
	// не условие корректности. Любые ошибки здесь не фатальны.
	g.Go(func() error {
		s.resendLoop(gctx, tx, opts, log)
		return nil
	})

	var outcome error
	g.Go(func() error {
		// Остановить рассылку сразу после терминального решения.
		defer cancel()
		outcome = s.pollLoop(gctx, tx, opts, expiry, log)
		return nil
	})

	_ = g.Wait()
	return outcome
}

func (s *Supervisor) resendLoop(ctx context.Context, tx *SignedTransaction, opts *Options, log *zap.Logger) {
	ticker := time.NewTicker(opts.ResendInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sender.Submit(ctx, tx.Raw, opts); err != nil {
				log.Warn("Resend failed", zap.Error(err))
				continue
			}
			log.Debug("Transaction rebroadcast")
		}
	}
}

// pollLoop — единственный писатель терминального состояния. Приоритет
// исходов на одном тике: он-чейн ошибка > истечение окна > таймаут.
// Поздние тики после возврата невозможны: решение и выход атомарны.
func (s *Supervisor) pollLoop(ctx context.Context, tx *SignedTransaction, opts *Options, expiry uint64, log *zap.Logger) error {
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return &SwapError{
				Code:   CodeTimedOut,
				Detail: "confirmation deadline exceeded",
				Err:    ctx.Err(),
			}
		case <-ticker.C:
			attempts++

			statuses, err := s.client.GetSignatureStatuses(ctx, tx.Signature)
			if err != nil {
				// Транспортный сбой ретраится в кадансе опроса.
				log.Debug("Status check failed", zap.Error(err))
			} else if status := firstStatus(statuses); status != nil {
				if status.Err != nil {
					return &SwapError{
						Code:   CodeOnChainFailure,
						Detail: fmt.Sprintf("transaction failed on-chain: %v", status.Err),
					}
				}
				if opts.Commitment.ReachedBy(status.ConfirmationStatus) {
					log.Debug("Transaction confirmed",
						zap.Int("poll_attempts", attempts),
						zap.String("status", string(status.ConfirmationStatus)))
					return nil
				}
			}

			height, err := s.client.GetBlockHeight(ctx)
			if err != nil {
				log.Debug("Block height check failed", zap.Error(err))
			} else if height > expiry {
				return &SwapError{
					Code:   CodeExpired,
					Detail: fmt.Sprintf("block height %d passed last valid height %d", height, expiry),
				}
			}

			if attempts >= opts.MaxRetries {
				return &SwapError{
					Code:   CodeTimedOut,
					Detail: fmt.Sprintf("no confirmation after %d status checks", attempts),
				}
			}
		}
	}
}

func firstStatus(result *rpc.GetSignatureStatusesResult) *rpc.SignatureStatusesResult {
	if result == nil || len(result.Value) == 0 {
		return nil
	}
	return result.Value[0]
}
