// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"net/url"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain"
)

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
// Все вызовы уходят через пул RPC-нод с круговой балансировкой.
type Client struct {
	pool   *RPCPool
	logger *zap.Logger
}

// NewClient создаёт новый клиент, принимая список RPC URL и логгер через
// dependency injection.
func NewClient(rpcList []string, logger *zap.Logger) (*Client, error) {
	if len(rpcList) == 0 {
		return nil, errors.New("empty RPC list")
	}
	for _, rpcURL := range rpcList {
		if _, err := url.ParseRequestURI(rpcURL); err != nil {
			return nil, errors.New("invalid RPC URL: " + rpcURL)
		}
	}

	return &Client{
		pool:   NewRPCPool(rpcList),
		logger: logger.Named("solbc-client"),
	}, nil
}

// GetLatestBlockhash получает последний blockhash вместе с высотой блока,
// до которой он остаётся валидным.
func (c *Client) GetLatestBlockhash(ctx context.Context) (blockchain.Blockhash, error) {
	result, err := c.pool.GetClient().GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return blockchain.Blockhash{}, err
	}
	return blockchain.Blockhash{
		Hash:                 result.Value.Blockhash,
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
	}, nil
}

// SendRawTransaction отправляет сырые байты подписанной транзакции с
// заданными опциями.
func (c *Client) SendRawTransaction(ctx context.Context, txBytes []byte, opts blockchain.TransactionOptions) (solana.Signature, error) {
	sig, err := c.pool.GetClient().SendRawTransactionWithOpts(ctx, txBytes, rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
		MaxRetries:          opts.MaxRetries,
	})
	if err != nil {
		c.logger.Debug("SendRawTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// GetSignatureStatuses получает статусы транзакций.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	result, err := c.pool.GetClient().GetSignatureStatuses(ctx, false, signatures...)
	if err != nil {
		c.logger.Debug("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetBlockHeight получает текущую высоту блока.
func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.pool.GetClient().GetBlockHeight(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Debug("GetBlockHeight error", zap.Error(err))
		return 0, err
	}
	return height, nil
}

// GetBalance получает баланс аккаунта.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	result, err := c.pool.GetClient().GetBalance(ctx, pubkey, commitment)
	if err != nil {
		c.logger.Error("GetBalance error", zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
