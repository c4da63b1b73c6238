// internal/blockchain/solbc/rpc_pool.go
package solbc

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// RPCPool держит несколько rpc-клиентов и раздаёт их по кругу, чтобы
// размазать resend/poll нагрузку по списку нод из конфигурации.
type RPCPool struct {
	clients []*rpc.Client
	mutex   sync.Mutex
	index   int
}

func NewRPCPool(rpcList []string) *RPCPool {
	clients := make([]*rpc.Client, 0, len(rpcList))
	for _, url := range rpcList {
		clients = append(clients, rpc.New(url))
	}
	return &RPCPool{clients: clients}
}

// GetClient возвращает следующий клиент пула (круговой цикл).
func (p *RPCPool) GetClient() *rpc.Client {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	client := p.clients[p.index]
	p.index = (p.index + 1) % len(p.clients)
	return client
}

// Size возвращает текущее число клиентов в пуле.
func (p *RPCPool) Size() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.clients)
}

// CheckClientHealth проверяет доступность ноды запросом blockhash.
func (p *RPCPool) CheckClientHealth(client *rpc.Client) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	return err == nil
}

// PerformHealthChecks убирает из пула недоступные ноды.
func (p *RPCPool) PerformHealthChecks() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	alive := p.clients[:0]
	for _, client := range p.clients {
		if p.CheckClientHealth(client) {
			alive = append(alive, client)
		}
	}
	// Пустой пул хуже пула из подозрительных нод.
	if len(alive) > 0 {
		p.clients = alive
		p.index = p.index % len(p.clients)
	}
}
