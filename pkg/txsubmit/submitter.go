// Package txsubmit sends ledger transactions on behalf of a signer: it
// synchronizes the account nonce, signs and broadcasts.
package txsubmit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chainsafe/mvx-bridge-adapter/internal/metrics"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"go.uber.org/zap"
)

// Ledger is the part of the gateway client needed to submit transactions.
type Ledger interface {
	GetAccount(ctx context.Context, addr mvx.Address) (*mvx.Account, error)
	SendTransaction(ctx context.Context, tx *mvx.Transaction) (string, error)
}

// Sender submits a transaction and returns its handle.
type Sender interface {
	Send(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*Handle, error)
}

// Handle identifies a broadcast transaction. It is not modified after Send returns.
type Handle struct {
	Hash   string
	Signed *mvx.Transaction
	// Raw is the JSON body that was broadcast.
	Raw []byte
}

// Stage names the step of a submission that failed.
type Stage string

const (
	StageNonce     Stage = "nonce"
	StageSign      Stage = "sign"
	StageBroadcast Stage = "broadcast"
)

// SubmissionError is returned when a transaction could not be submitted.
// Submissions are never retried.
type SubmissionError struct {
	Stage Stage
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit transaction (%s): %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Submitter implements Sender against a ledger gateway.
//
// The gateway only advances an account nonce once a transaction is executed,
// so the Submitter remembers the last nonce it broadcast per signer and uses
// max(ledger nonce, last+1).
//
// Submitter does not serialize calls: two concurrent Sends for the same signer
// can pick the same nonce. Wrap it with Serialized when that can happen.
type Submitter struct {
	ledger Ledger
	chain  string
	logger *zap.Logger

	mu   sync.Mutex
	last map[string]uint64
}

// New creates a new submitter. chain labels metrics.
func New(ledger Ledger, chain string, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{ledger: ledger, chain: chain, logger: logger, last: make(map[string]uint64)}
}

// Send fills in the signer's current nonce and sender, signs and broadcasts tx.
// tx itself is left untouched; the signed copy is returned in the handle.
func (s *Submitter) Send(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*Handle, error) {
	addr := signer.Address()

	acc, err := s.ledger.GetAccount(ctx, addr)
	if err != nil {
		return nil, s.fail(StageNonce, fmt.Errorf("get account %s: %w", addr, err))
	}

	signed := *tx
	signed.Nonce = s.nextNonce(addr, acc.Nonce)
	signed.Sender = addr.Bech32()
	signed.Signature = ""

	if err := mvx.SignTransaction(signer, &signed); err != nil {
		return nil, s.fail(StageSign, err)
	}

	raw, err := json.Marshal(&signed)
	if err != nil {
		return nil, s.fail(StageSign, fmt.Errorf("marshal signed transaction: %w", err))
	}

	hash, err := s.ledger.SendTransaction(ctx, &signed)
	if err != nil {
		return nil, s.fail(StageBroadcast, err)
	}

	s.markSent(addr, signed.Nonce)

	metrics.TransactionsSent.WithLabelValues(s.chain, "success").Inc()
	s.logger.Info("Transaction submitted",
		zap.String("tx_hash", hash),
		zap.String("sender", signed.Sender),
		zap.String("receiver", signed.Receiver),
		zap.Uint64("nonce", signed.Nonce))

	return &Handle{Hash: hash, Signed: &signed, Raw: raw}, nil
}

func (s *Submitter) nextNonce(addr mvx.Address, fetched uint64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.last[addr.Hex()]
	if ok && last+1 > fetched {
		return last + 1
	}
	return fetched
}

func (s *Submitter) markSent(addr mvx.Address, nonce uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[addr.Hex()] = nonce
}

func (s *Submitter) fail(stage Stage, err error) error {
	metrics.TransactionsSent.WithLabelValues(s.chain, "failed").Inc()
	s.logger.Error("Transaction submission failed",
		zap.String("stage", string(stage)),
		zap.Error(err))
	return &SubmissionError{Stage: stage, Err: err}
}
