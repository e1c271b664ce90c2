// Package finality blocks until a submitted ledger transaction reaches a
// terminal state.
package finality

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainsafe/mvx-bridge-adapter/internal/metrics"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"go.uber.org/zap"
)

// Status is the lifecycle state of a watched transaction.
// It only moves from Pending to Success or Failed.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result is the terminal view of a transaction.
type Result struct {
	Status    Status
	RawStatus string
	Results   []mvx.ContractResult
}

// StatusQuerier is the part of the ledger gateway the watcher depends on.
type StatusQuerier interface {
	GetTransactionStatus(ctx context.Context, hash string) (*mvx.TransactionOnNetwork, error)
}

// Watcher polls the ledger for the status of submitted transactions.
// A single Watcher can serve concurrent Wait calls.
type Watcher struct {
	ledger StatusQuerier
	cfg    Config
	clock  Clock
	logger *zap.Logger
}

// New creates a new watcher.
func New(ledger StatusQuerier, cfg *Config, opts ...Option) (*Watcher, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid finality config: %w", err)
	}

	s := applyOptions(opts)
	return &Watcher{
		ledger: ledger,
		cfg:    *cfg,
		clock:  s.clock,
		logger: s.logger,
	}, nil
}

// Wait blocks until the transaction is final and returns its contract results.
//
// Only "pending" keeps the watcher polling. "success" returns a Success
// result. Every other status, including "received" and "partially-executed", a gateway
// answer without the successful code, the timeout and ctx cancellation end the
// wait with a *FinalityError.
func (w *Watcher) Wait(ctx context.Context, hash string) (*Result, error) {
	start := w.clock.Now()
	deadline := start.Add(w.cfg.Timeout)

	logger := w.logger.With(zap.String("tx_hash", hash))

	if err := w.sleep(ctx, w.cfg.SettleDelay, deadline); err != nil {
		return nil, &FinalityError{Hash: hash, Err: err}
	}

	transportErrors := 0
	for {
		tx, err := w.ledger.GetTransactionStatus(ctx, hash)
		switch {
		case err == nil:
			transportErrors = 0
		case ctx.Err() != nil:
			return nil, &FinalityError{Hash: hash, Err: ctx.Err()}
		case isEnvelopeError(err):
			metrics.FinalityPolls.WithLabelValues("error").Inc()
			return nil, &FinalityError{Hash: hash, Err: err}
		default:
			metrics.FinalityPolls.WithLabelValues("error").Inc()
			transportErrors++
			if transportErrors >= w.cfg.MaxTransportErrors {
				return nil, &FinalityError{Hash: hash, Err: fmt.Errorf("%d consecutive status queries failed: %w", transportErrors, err)}
			}
			logger.Warn("Transaction status query failed, retrying",
				zap.Int("attempt", transportErrors),
				zap.Error(err))
			if err := w.sleep(ctx, w.cfg.PollInterval, deadline); err != nil {
				return nil, &FinalityError{Hash: hash, Err: err}
			}
			continue
		}

		metrics.FinalityPolls.WithLabelValues(tx.Status).Inc()

		switch tx.Status {
		case mvx.StatusPending:
			logger.Debug("Transaction pending", zap.String("status", tx.Status))
			if err := w.sleep(ctx, w.cfg.PollInterval, deadline); err != nil {
				return nil, &FinalityError{Hash: hash, Err: err}
			}
		case mvx.StatusSuccess:
			w.observe(start, StatusSuccess)
			logger.Info("Transaction finalized", zap.Int("results", len(tx.SmartContractResults)))
			return &Result{Status: StatusSuccess, RawStatus: tx.Status, Results: tx.SmartContractResults}, nil
		default:
			w.observe(start, StatusFailed)
			logger.Warn("Transaction failed", zap.String("status", tx.Status))
			res := &Result{Status: StatusFailed, RawStatus: tx.Status, Results: tx.SmartContractResults}
			return nil, &FinalityError{Hash: hash, Result: res, Err: fmt.Errorf("terminal status %q", tx.Status)}
		}
	}
}

// sleep waits d, cut short by the deadline or ctx.
func (w *Watcher) sleep(ctx context.Context, d time.Duration, deadline time.Time) error {
	remaining := deadline.Sub(w.clock.Now())
	if remaining <= 0 {
		return ErrTimeout
	}
	if d > remaining {
		d = remaining
	}
	if d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.clock.After(d):
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if !w.clock.Now().Before(deadline) {
		return ErrTimeout
	}
	return nil
}

func (w *Watcher) observe(start time.Time, s Status) {
	metrics.FinalityWait.WithLabelValues(string(s)).Observe(w.clock.Now().Sub(start).Seconds())
}

func isEnvelopeError(err error) bool {
	var envErr *mvx.EnvelopeError
	return errors.As(err, &envErr)
}
