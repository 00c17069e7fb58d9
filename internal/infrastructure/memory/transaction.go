package memory

import (
	"context"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
)

// TxManager はインメモリストア用のトランザクションマネージャー
// インメモリ実装は各操作がそれ自体でアトミックなため、トランザクションは
// no-op になる
type TxManager struct{}

func NewTxManager() *TxManager { return &TxManager{} }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	return noopTx{}, nil
}

var _ transaction.Manager = (*TxManager)(nil)
