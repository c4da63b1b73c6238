// =============================
// File: internal/engine/signer.go
// =============================
package engine

import (
	"github.com/gagliardetto/solana-go"

	"github.com/YZYLAB/solana-swap-go/internal/wallet"
)

// SignedTransaction — неизменяемые байты подписанной транзакции вместе с
// каноничной подписью (идентификатором транзакции). Повторные отправки
// передают ровно эти же байты, поэтому id не меняется.
type SignedTransaction struct {
	Raw                  []byte
	Signature            solana.Signature
	LastValidBlockHeight uint64
}

// Sign применяет подпись кошелька к собранной транзакции. Детерминирован:
// одинаковый вход даёт одинаковый результат, повторы не нужны — ошибки
// подписания локальны и невосстановимы.
func Sign(unsigned *UnsignedTransaction, w *wallet.Wallet) (*SignedTransaction, error) {
	if err := w.SignTransaction(unsigned.Tx); err != nil {
		return nil, &SwapError{Code: CodeSigningError, Detail: "failed to sign transaction", Err: err}
	}
	if len(unsigned.Tx.Signatures) == 0 {
		return nil, &SwapError{Code: CodeSigningError, Detail: "transaction has no signatures after signing"}
	}

	raw, err := unsigned.Tx.MarshalBinary()
	if err != nil {
		return nil, &SwapError{Code: CodeSigningError, Detail: "failed to serialize signed transaction", Err: err}
	}

	return &SignedTransaction{
		Raw:                  raw,
		Signature:            unsigned.Tx.Signatures[0],
		LastValidBlockHeight: unsigned.LastValidBlockHeight,
	}, nil
}
