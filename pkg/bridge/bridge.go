// Package bridge composes submission, finality, event extraction and relay
// notification into the named bridge operations.
package bridge

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/chainsafe/mvx-bridge-adapter/internal/metrics"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/finality"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Waiter blocks until a transaction is final.
type Waiter interface {
	Wait(ctx context.Context, hash string) (*finality.Result, error)
}

// Notifier forwards an event id to the relay.
type Notifier interface {
	Notify(ctx context.Context, id eventid.ID) error
}

// Bridge runs bridge operations for a single signer.
//
// Transfer operations return the handle and the event id. When a step after
// submission fails the handle is still returned alongside the error, so the
// caller keeps a reference to what was broadcast.
type Bridge struct {
	*Builder

	signer   mvx.Signer
	sender   txsubmit.Sender
	watcher  Waiter
	notifier Notifier
	recorder Recorder
	logger   *zap.Logger
}

// New creates a new bridge facade.
func New(builder *Builder, signer mvx.Signer, sender txsubmit.Sender, watcher Waiter, notifier Notifier, opts ...Option) *Bridge {
	s := applyOptions(opts)
	return &Bridge{
		Builder:  builder,
		signer:   signer,
		sender:   sender,
		watcher:  watcher,
		notifier: notifier,
		recorder: s.recorder,
		logger:   s.logger,
	}
}

// Address returns the signer's address, the sender of every operation.
func (b *Bridge) Address() mvx.Address {
	return b.signer.Address()
}

// LockNative locks native currency for release on req.ChainNonce.
func (b *Bridge) LockNative(ctx context.Context, req NativeTransfer) (*txsubmit.Handle, eventid.ID, error) {
	tx, err := b.BuildLockNative(b.signer.Address(), req)
	if err != nil {
		return nil, 0, err
	}
	return b.transfer(ctx, OpLockNative, tx)
}

// UnlockWrapped burns wrapped tokens so the original is released on req.ChainNonce.
func (b *Bridge) UnlockWrapped(ctx context.Context, req WrappedUnfreeze) (*txsubmit.Handle, eventid.ID, error) {
	tx, err := b.BuildUnlockWrapped(b.signer.Address(), req)
	if err != nil {
		return nil, 0, err
	}
	return b.transfer(ctx, OpUnlockWrapped, tx)
}

// LockNft locks an NFT in escrow for req.ChainNonce.
func (b *Bridge) LockNft(ctx context.Context, req NftTransfer) (*txsubmit.Handle, eventid.ID, error) {
	tx, err := b.BuildLockNft(b.signer.Address(), req)
	if err != nil {
		return nil, 0, err
	}
	return b.transfer(ctx, OpLockNft, tx)
}

// UnlockNft returns a wrapped NFT so the original is released on req.ChainNonce.
func (b *Bridge) UnlockNft(ctx context.Context, req NftUnfreeze) (*txsubmit.Handle, eventid.ID, error) {
	tx, err := b.BuildUnlockNft(b.signer.Address(), req)
	if err != nil {
		return nil, 0, err
	}
	return b.transfer(ctx, OpUnlockNft, tx)
}

// MintNft mints an NFT to the signer.
func (b *Bridge) MintNft(ctx context.Context, req MintNft) (*txsubmit.Handle, error) {
	tx, err := b.BuildMintNft(b.signer.Address(), req)
	if err != nil {
		return nil, err
	}
	h, _, err := b.run(ctx, OpMintNft, tx)
	return h, err
}

// IssueNft issues an NFT collection owned by the signer.
func (b *Bridge) IssueNft(ctx context.Context, req IssueNft) (*txsubmit.Handle, error) {
	tx, err := b.BuildIssueNft(b.signer.Address(), req)
	if err != nil {
		return nil, err
	}
	h, _, err := b.run(ctx, OpIssueNft, tx)
	return h, err
}

// SetRoles grants token roles.
func (b *Bridge) SetRoles(ctx context.Context, req SetRoles) (*txsubmit.Handle, error) {
	tx, err := b.BuildSetRoles(b.signer.Address(), req)
	if err != nil {
		return nil, err
	}
	h, _, err := b.run(ctx, OpSetRoles, tx)
	return h, err
}

func (b *Bridge) transfer(ctx context.Context, op Operation, tx *mvx.Transaction) (*txsubmit.Handle, eventid.ID, error) {
	h, id, err := b.run(ctx, op, tx)
	if err != nil {
		return h, 0, err
	}
	return h, *id, nil
}

// run submits tx, waits for finality and, for transfer operations, extracts
// the event id and notifies the relay once.
func (b *Bridge) run(ctx context.Context, op Operation, tx *mvx.Transaction) (*txsubmit.Handle, *eventid.ID, error) {
	start := time.Now()

	opID := OperationID(ctx)
	if opID == "" {
		opID = uuid.NewString()
	}
	ev := Event{OperationID: opID, Operation: op}
	if d, err := tx.Digest(); err == nil {
		ev.Digest = hex.EncodeToString(d[:])
	}

	logger := b.logger.With(
		zap.String("operation_id", opID),
		zap.String("operation", string(op)))

	fail := func(h *txsubmit.Handle, err error) (*txsubmit.Handle, *eventid.ID, error) {
		metrics.OperationsTotal.WithLabelValues(string(op), "failed").Inc()
		logger.Error("Bridge operation failed", zap.String("tx_hash", ev.TxHash), zap.Error(err))
		ev.Err = err
		b.record(ctx, logger, ev, StageFailed)
		return h, nil, err
	}

	h, err := b.sender.Send(ctx, b.signer, tx)
	if err != nil {
		return fail(nil, fmt.Errorf("%s: %w", op, err))
	}
	ev.TxHash = h.Hash
	b.record(ctx, logger, ev, StageSubmitted)

	res, err := b.watcher.Wait(ctx, h.Hash)
	if err != nil {
		return fail(h, fmt.Errorf("%s: %w", op, err))
	}
	b.record(ctx, logger, ev, StageFinalized)

	var id *eventid.ID
	if op.Transfer() {
		extracted, err := eventid.Extract(res.Results)
		if err != nil {
			metrics.EventsExtracted.WithLabelValues("failed").Inc()
			return fail(h, fmt.Errorf("%s: %w", op, err))
		}
		metrics.EventsExtracted.WithLabelValues("success").Inc()
		id = &extracted
		ev.EventID = id
		b.record(ctx, logger, ev, StageExtracted)

		if err := b.notifier.Notify(ctx, extracted); err != nil {
			return fail(h, fmt.Errorf("%s: %w", op, err))
		}
		b.record(ctx, logger, ev, StageNotified)
	}

	metrics.OperationsTotal.WithLabelValues(string(op), "success").Inc()
	metrics.OperationDuration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())

	fields := []zap.Field{zap.String("tx_hash", h.Hash)}
	if id != nil {
		fields = append(fields, zap.String("event_id", id.String()))
	}
	logger.Info("Bridge operation completed", fields...)

	return h, id, nil
}

func (b *Bridge) record(ctx context.Context, logger *zap.Logger, ev Event, stage Stage) {
	if b.recorder == nil {
		return
	}
	ev.Stage = stage
	if err := b.recorder.Record(ctx, ev); err != nil {
		logger.Warn("Failed to record operation event",
			zap.String("stage", string(stage)),
			zap.Error(err))
	}
}
