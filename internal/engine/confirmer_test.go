// internal/engine/confirmer_test.go
package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/YZYLAB/solana-swap-go/internal/blockchain"
)

// fakeClient — детерминированный фейк blockchain.Client: статусы и высоты
// блоков выдаются по заранее заданному сценарию, по одному на опрос.
type fakeClient struct {
	mu sync.Mutex

	blockhash blockchain.Blockhash

	// statuses выдаются последовательно; nil означает "транзакция ещё не видна".
	statuses    []*rpc.SignatureStatusesResult
	statusIndex int
	statusErr   error

	heights     []uint64
	heightIndex int

	sendErr        error
	sendCount      int
	pollCount      int
	heightCalls    int
	blockhashCalls int
}

func (f *fakeClient) GetLatestBlockhash(ctx context.Context) (blockchain.Blockhash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blockhashCalls++
	return f.blockhash, nil
}

func (f *fakeClient) SendRawTransaction(ctx context.Context, txBytes []byte, opts blockchain.TransactionOptions) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCount++
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	return solana.Signature{}, nil
}

func (f *fakeClient) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCount++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	var status *rpc.SignatureStatusesResult
	if f.statusIndex < len(f.statuses) {
		status = f.statuses[f.statusIndex]
		f.statusIndex++
	} else if len(f.statuses) > 0 {
		status = f.statuses[len(f.statuses)-1]
	}
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{status}}, nil
}

func (f *fakeClient) GetBlockHeight(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heightCalls++
	if len(f.heights) == 0 {
		return 0, nil
	}
	h := f.heights[f.heightIndex]
	if f.heightIndex < len(f.heights)-1 {
		f.heightIndex++
	}
	return h, nil
}

func (f *fakeClient) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	return 0, nil
}

func (f *fakeClient) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendCount
}

func (f *fakeClient) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pollCount
}

var _ blockchain.Client = (*fakeClient)(nil)

func confirmedStatus() *rpc.SignatureStatusesResult {
	return &rpc.SignatureStatusesResult{ConfirmationStatus: rpc.ConfirmationStatusConfirmed}
}

func failedStatus() *rpc.SignatureStatusesResult {
	return &rpc.SignatureStatusesResult{
		ConfirmationStatus: rpc.ConfirmationStatusProcessed,
		Err:                map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
	}
}

func testOptions() *Options {
	opts := DefaultOptions()
	opts.MaxRetries = 3
	opts.RetryTimeout = 3 * time.Second
	opts.PollInterval = 20 * time.Millisecond
	opts.ResendInterval = 15 * time.Millisecond
	opts.LastValidBlockHeightBuffer = 10
	return opts
}

func newTestSupervisor(t *testing.T, client *fakeClient) *Supervisor {
	log := zaptest.NewLogger(t)
	return NewSupervisor(client, NewSender(client, log), log)
}

func testSignedTx(lastValid uint64) *SignedTransaction {
	return &SignedTransaction{
		Raw:                  []byte{1, 2, 3},
		Signature:            solana.Signature{1},
		LastValidBlockHeight: lastValid,
	}
}

func TestAwait_ConfirmedOnThirdPoll(t *testing.T) {
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil, nil, confirmedStatus()},
		heights:  []uint64{100},
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, client.polls(), "confirmation must land on the third status check")
}

func TestAwait_OnChainFailure(t *testing.T) {
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil, failedStatus()},
		heights:  []uint64{100},
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.Error(t, err)
	assert.True(t, IsOnChainFailure(err))
	assert.Contains(t, err.Error(), "InstructionError")
}

func TestAwait_ExpiredBeatsTimeout(t *testing.T) {
	// Высота блока сразу за границей окна, статус так и не появляется:
	// исход должен быть Expired, а не TimedOut, даже на последнем
	// разрешённом тике.
	opts := testOptions()
	opts.MaxRetries = 1

	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil},
		heights:  []uint64{995},
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), opts)
	require.Error(t, err)
	assert.True(t, IsExpired(err), "expiry is a protocol fact and must win over the retry budget")
	assert.False(t, IsTimedOut(err))
}

func TestAwait_ExpiryUsesBufferedWindow(t *testing.T) {
	// lastValid=1000, buffer=10: высота 991 уже за пределами усечённого окна.
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil},
		heights:  []uint64{991},
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}

func TestAwait_HeightInsideBufferedWindowKeepsPolling(t *testing.T) {
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil, confirmedStatus()},
		heights:  []uint64{990}, // ровно на границе, ещё валидно
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.NoError(t, err)
}

func TestAwait_TimedOutAfterRetryBudget(t *testing.T) {
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil},
		heights:  []uint64{100},
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.Error(t, err)
	assert.True(t, IsTimedOut(err))
	assert.Equal(t, 3, client.polls())
}

func TestAwait_NeverHangsPastDeadline(t *testing.T) {
	opts := testOptions()
	opts.MaxRetries = 1000
	opts.RetryTimeout = 150 * time.Millisecond

	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil},
		heights:  []uint64{100},
	}
	supervisor := newTestSupervisor(t, client)

	start := time.Now()
	err := supervisor.Await(context.Background(), testSignedTx(1000), opts)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsTimedOut(err))
	assert.Less(t, elapsed, opts.RetryTimeout+opts.PollInterval+100*time.Millisecond,
		"supervisor must resolve within the deadline plus one poll interval")
}

func TestAwait_ResendFailuresAreNotFatal(t *testing.T) {
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{nil, nil, confirmedStatus()},
		heights:  []uint64{100},
		sendErr:  assert.AnError,
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.NoError(t, err, "resend is best-effort redundancy, its failures must be swallowed")
	assert.Greater(t, client.sends(), 0, "resend loop must have attempted rebroadcasts")
}

func TestAwait_TerminalOutcomeIsExclusive(t *testing.T) {
	// После подтверждения поздние тики не меняют исход: Await возвращает
	// ровно один результат и останавливает оба цикла.
	client := &fakeClient{
		statuses: []*rpc.SignatureStatusesResult{confirmedStatus()},
		heights:  []uint64{5000}, // окно давно истекло
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), testOptions())
	require.NoError(t, err, "confirmation observed first must win over a concurrent expiry")

	sendsAfter := client.sends()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, sendsAfter, client.sends(), "no resend ticks may fire after the terminal state")
}

func TestAwait_TransportErrorsOnPollAreRetried(t *testing.T) {
	opts := testOptions()

	client := &fakeClient{
		statusErr: assert.AnError,
		heights:   []uint64{100},
	}
	supervisor := newTestSupervisor(t, client)

	err := supervisor.Await(context.Background(), testSignedTx(1000), opts)
	require.Error(t, err)
	assert.True(t, IsTimedOut(err), "status transport errors are absorbed into the poll cadence")
	assert.Equal(t, opts.MaxRetries, client.polls())
}
