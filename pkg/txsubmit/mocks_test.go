package txsubmit

import (
	"context"
	"errors"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
)

// MockLedger is a mock implementation of Ledger
type MockLedger struct {
	GetAccountFunc      func(ctx context.Context, addr mvx.Address) (*mvx.Account, error)
	SendTransactionFunc func(ctx context.Context, tx *mvx.Transaction) (string, error)
}

func (m *MockLedger) GetAccount(ctx context.Context, addr mvx.Address) (*mvx.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, addr)
	}
	return &mvx.Account{}, nil
}

func (m *MockLedger) SendTransaction(ctx context.Context, tx *mvx.Transaction) (string, error) {
	if m.SendTransactionFunc != nil {
		return m.SendTransactionFunc(ctx, tx)
	}
	return "", nil
}

// MockSender is a mock implementation of Sender
type MockSender struct {
	SendFunc func(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*Handle, error)
}

func (m *MockSender) Send(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*Handle, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, signer, tx)
	}
	return &Handle{}, nil
}

// failingSigner always fails to sign
type failingSigner struct {
	addr mvx.Address
}

func (s failingSigner) Address() mvx.Address { return s.addr }

func (s failingSigner) Sign([]byte) ([]byte, error) {
	return nil, errors.New("hsm unavailable")
}
