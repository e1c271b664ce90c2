// Package audit keeps a durable record of bridge operations: the transaction
// each one broadcast, how far it got and the event id it produced.
package audit

import (
	"context"
	"errors"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
)

// ErrNotFound is returned when no record exists for an operation id.
var ErrNotFound = errors.New("operation not found")

// Store persists operation progress. It implements bridge.Recorder.
type Store interface {
	bridge.Recorder
	Get(ctx context.Context, id string) (*Record, error)
	ListByTxHash(ctx context.Context, txHash string) ([]*Record, error)
}
