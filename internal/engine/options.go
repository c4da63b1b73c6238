// =============================
// File: internal/engine/options.go
// =============================
package engine

import (
	"errors"
	"time"

	"github.com/YZYLAB/solana-swap-go/internal/config"
	"github.com/YZYLAB/solana-swap-go/internal/types"
)

// SendOptions — опции, применяемые на каждой отправке байтов транзакции.
type SendOptions struct {
	// SkipPreflight отключает preflight-симуляцию на ноде.
	SkipPreflight bool
	// MaxNodeRetries — внутренний счётчик повторов самой ноды;
	// nil оставляет поведение ноды по умолчанию.
	MaxNodeRetries *uint
}

// Options управляют циклом отправки и подтверждения свапа.
type Options struct {
	Send SendOptions
	// MaxRetries — верхняя граница числа опросов статуса.
	MaxRetries int
	// RetryTimeout — общий дедлайн цикла подтверждения.
	RetryTimeout time.Duration
	// ResendInterval — период повторной рассылки неизменных байтов транзакции.
	ResendInterval time.Duration
	// PollInterval — период опроса статуса подписи.
	PollInterval time.Duration
	// LastValidBlockHeightBuffer — запас, вычитаемый из высоты истечения
	// blockhash, чтобы оставить поле на рассинхрон и распространение.
	LastValidBlockHeightBuffer uint64
	// Commitment — уровень финализации, который считается подтверждением.
	Commitment types.Commitment
	// SkipConfirmationCheck — вернуться сразу после первой успешной
	// отправки, не дожидаясь подтверждения.
	SkipConfirmationCheck bool
}

// DefaultOptions возвращает задокументированный базовый набор опций:
// commitment = confirmed, умеренные интервалы и бюджет повторов.
func DefaultOptions() *Options {
	return &Options{
		Send:                       SendOptions{SkipPreflight: true},
		MaxRetries:                 config.DefaultMaxRetries,
		RetryTimeout:               time.Duration(config.DefaultRetryTimeoutMs) * time.Millisecond,
		ResendInterval:             time.Duration(config.DefaultResendIntervalMs) * time.Millisecond,
		PollInterval:               time.Duration(config.DefaultPollIntervalMs) * time.Millisecond,
		LastValidBlockHeightBuffer: config.DefaultBlockBuffer,
		Commitment:                 types.CommitmentConfirmed,
	}
}

// OptionsFromConfig собирает опции исполнения из файла конфигурации.
func OptionsFromConfig(cfg *config.Config) (*Options, error) {
	commitment, err := types.ParseCommitment(cfg.Commitment)
	if err != nil {
		return nil, err
	}
	return &Options{
		Send:                       SendOptions{SkipPreflight: cfg.SkipPreflight},
		MaxRetries:                 cfg.MaxRetries,
		RetryTimeout:               time.Duration(cfg.RetryTimeoutMs) * time.Millisecond,
		ResendInterval:             time.Duration(cfg.ResendIntervalMs) * time.Millisecond,
		PollInterval:               time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		LastValidBlockHeightBuffer: uint64(cfg.BlockHeightBuffer),
		Commitment:                 commitment,
		SkipConfirmationCheck:      cfg.SkipConfirmationCheck,
	}, nil
}

// Validate проверяет инварианты: все интервалы и бюджеты положительны.
func (o *Options) Validate() error {
	if o.MaxRetries <= 0 {
		return errors.New("max retries must be positive")
	}
	if o.RetryTimeout <= 0 {
		return errors.New("retry timeout must be positive")
	}
	if o.ResendInterval <= 0 {
		return errors.New("resend interval must be positive")
	}
	if o.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if _, err := types.ParseCommitment(string(o.Commitment)); err != nil {
		return err
	}
	return nil
}
