package bridge

import (
	"context"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/finality"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"
	"github.com/stretchr/testify/mock"
)

// MockSender is a mock implementation of txsubmit.Sender
type MockSender struct {
	SendFunc func(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*txsubmit.Handle, error)
}

func (m *MockSender) Send(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*txsubmit.Handle, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, signer, tx)
	}
	return &txsubmit.Handle{Hash: "hash", Signed: tx}, nil
}

// MockWaiter is a mock implementation of Waiter
type MockWaiter struct {
	WaitFunc func(ctx context.Context, hash string) (*finality.Result, error)
}

func (m *MockWaiter) Wait(ctx context.Context, hash string) (*finality.Result, error) {
	if m.WaitFunc != nil {
		return m.WaitFunc(ctx, hash)
	}
	return &finality.Result{Status: finality.StatusSuccess}, nil
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	NotifyFunc func(ctx context.Context, id eventid.ID) error
}

func (m *MockNotifier) Notify(ctx context.Context, id eventid.ID) error {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, id)
	}
	return nil
}

// MockRecorder is a testify mock of Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, ev Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
