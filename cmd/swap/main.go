// ====================================
// File: cmd/swap/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain/solbc"
	"github.com/YZYLAB/solana-swap-go/internal/config"
	"github.com/YZYLAB/solana-swap-go/internal/engine"
	"github.com/YZYLAB/solana-swap-go/internal/logger"
	"github.com/YZYLAB/solana-swap-go/internal/tracker"
	"github.com/YZYLAB/solana-swap-go/internal/types"
	"github.com/YZYLAB/solana-swap-go/internal/wallet"
)

func main() {
	var (
		configPath  = flag.String("config", "configs/config.json", "path to configuration file")
		fromToken   = flag.String("from", "So11111111111111111111111111111111111111112", "mint of the token to sell")
		toToken     = flag.String("to", "", "mint of the token to buy")
		amount      = flag.Float64("amount", 0, "amount of the from-token to swap")
		slippageBps = flag.Int("slippage-bps", 100, "allowed slippage in basis points")
		priorityFee = flag.String("priority-fee", "auto", "priority fee in SOL or \"auto\"")
		forceLegacy = flag.Bool("force-legacy", false, "request a legacy transaction")
	)
	flag.Parse()

	if *toToken == "" || *amount <= 0 {
		fmt.Fprintln(os.Stderr, "usage: swap -to <mint> -amount <value> [flags]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     "swap.log",
		MaxSize:     50,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, runParams{
		fromToken:   *fromToken,
		toToken:     *toToken,
		amount:      *amount,
		slippageBps: *slippageBps,
		priorityFee: *priorityFee,
		forceLegacy: *forceLegacy,
	}); err != nil {
		log.Error("Swap failed", zap.Error(err))
		os.Exit(1)
	}
}

type runParams struct {
	fromToken   string
	toToken     string
	amount      float64
	slippageBps int
	priorityFee string
	forceLegacy bool
}

func run(cfg *config.Config, log *logger.Logger, params runParams) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wallets, err := wallet.LoadWallets(cfg.WalletsFile)
	if err != nil {
		return fmt.Errorf("failed to load wallets: %w", err)
	}
	w, ok := wallets[cfg.WalletName]
	if !ok {
		return fmt.Errorf("wallet %q not found in %s", cfg.WalletName, cfg.WalletsFile)
	}

	client, err := solbc.NewClient(cfg.RPCList, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}

	balance, err := client.GetBalance(ctx, w.PublicKey, rpc.CommitmentConfirmed)
	if err == nil {
		log.WithWallet(w.String()).Info("Wallet loaded",
			zap.Float64("balance_sol", float64(balance)/1e9))
	}

	fee, err := types.ParsePriorityFee(params.priorityFee)
	if err != nil {
		return fmt.Errorf("invalid priority fee: %w", err)
	}

	api := tracker.NewClient(cfg.SwapAPIURL, log.Logger)
	resp, err := api.GetSwapInstructions(ctx, &tracker.SwapRequest{
		FromToken:   params.fromToken,
		ToToken:     params.toToken,
		Amount:      params.amount,
		SlippageBps: params.slippageBps,
		Payer:       w.String(),
		PriorityFee: fee,
		ForceLegacy: params.forceLegacy,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch swap instructions: %w", err)
	}

	log.Info("Route received",
		zap.Float64("amount_out", resp.Rate.AmountOut),
		zap.Float64("min_amount_out", resp.Rate.MinAmountOut),
		zap.Float64("price_impact", resp.Rate.PriceImpact))

	opts, err := engine.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid execution options: %w", err)
	}

	eng := engine.New(client, w, log.Logger)

	start := time.Now()
	sig, err := eng.PerformSwap(ctx, resp.InstructionSet(), opts)
	if err != nil {
		return err
	}

	log.WithTransaction(sig.String()).Info("Swap completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("explorer_url", "https://solscan.io/tx/"+sig.String()))
	return nil
}
