package api

import (
	"context"
	"math/big"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/audit"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/inventory"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"
)

// MockBridge is a mock implementation of Bridge. Transaction building is
// served by the embedded builder.
type MockBridge struct {
	*bridge.Builder

	AddressValue mvx.Address

	LockNativeFunc    func(ctx context.Context, req bridge.NativeTransfer) (*txsubmit.Handle, eventid.ID, error)
	UnlockWrappedFunc func(ctx context.Context, req bridge.WrappedUnfreeze) (*txsubmit.Handle, eventid.ID, error)
	LockNftFunc       func(ctx context.Context, req bridge.NftTransfer) (*txsubmit.Handle, eventid.ID, error)
	UnlockNftFunc     func(ctx context.Context, req bridge.NftUnfreeze) (*txsubmit.Handle, eventid.ID, error)
	MintNftFunc       func(ctx context.Context, req bridge.MintNft) (*txsubmit.Handle, error)
	IssueNftFunc      func(ctx context.Context, req bridge.IssueNft) (*txsubmit.Handle, error)
	SetRolesFunc      func(ctx context.Context, req bridge.SetRoles) (*txsubmit.Handle, error)
}

func (m *MockBridge) Address() mvx.Address { return m.AddressValue }

func (m *MockBridge) LockNative(ctx context.Context, req bridge.NativeTransfer) (*txsubmit.Handle, eventid.ID, error) {
	if m.LockNativeFunc != nil {
		return m.LockNativeFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, 1, nil
}

func (m *MockBridge) UnlockWrapped(ctx context.Context, req bridge.WrappedUnfreeze) (*txsubmit.Handle, eventid.ID, error) {
	if m.UnlockWrappedFunc != nil {
		return m.UnlockWrappedFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, 1, nil
}

func (m *MockBridge) LockNft(ctx context.Context, req bridge.NftTransfer) (*txsubmit.Handle, eventid.ID, error) {
	if m.LockNftFunc != nil {
		return m.LockNftFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, 1, nil
}

func (m *MockBridge) UnlockNft(ctx context.Context, req bridge.NftUnfreeze) (*txsubmit.Handle, eventid.ID, error) {
	if m.UnlockNftFunc != nil {
		return m.UnlockNftFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, 1, nil
}

func (m *MockBridge) MintNft(ctx context.Context, req bridge.MintNft) (*txsubmit.Handle, error) {
	if m.MintNftFunc != nil {
		return m.MintNftFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, nil
}

func (m *MockBridge) IssueNft(ctx context.Context, req bridge.IssueNft) (*txsubmit.Handle, error) {
	if m.IssueNftFunc != nil {
		return m.IssueNftFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, nil
}

func (m *MockBridge) SetRoles(ctx context.Context, req bridge.SetRoles) (*txsubmit.Handle, error) {
	if m.SetRolesFunc != nil {
		return m.SetRolesFunc(ctx, req)
	}
	return &txsubmit.Handle{Hash: "hash"}, nil
}

// MockInventory is a mock implementation of Inventory
type MockInventory struct {
	ListFunc      func(ctx context.Context, addr mvx.Address) ([]inventory.Holding, error)
	LockedNftFunc func(ctx context.Context, token string, nonce uint64) (*inventory.NFT, error)
	BalancesFunc  func(ctx context.Context, addr mvx.Address, chains []uint64) (map[uint64]*big.Int, error)
}

func (m *MockInventory) List(ctx context.Context, addr mvx.Address) ([]inventory.Holding, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, addr)
	}
	return nil, nil
}

func (m *MockInventory) LockedNft(ctx context.Context, token string, nonce uint64) (*inventory.NFT, error) {
	if m.LockedNftFunc != nil {
		return m.LockedNftFunc(ctx, token, nonce)
	}
	return nil, inventory.ErrNotFound
}

func (m *MockInventory) Balances(ctx context.Context, addr mvx.Address, chains []uint64) (map[uint64]*big.Int, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx, addr, chains)
	}
	return map[uint64]*big.Int{}, nil
}

// MockOperations is a mock implementation of Operations
type MockOperations struct {
	GetFunc func(ctx context.Context, id string) (*audit.Record, error)
}

func (m *MockOperations) Get(ctx context.Context, id string) (*audit.Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, audit.ErrNotFound
}
