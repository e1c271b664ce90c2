package bridge

import (
	"context"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
)

// Operation names a bridge operation kind.
type Operation string

const (
	OpLockNative    Operation = "lock_native"
	OpUnlockWrapped Operation = "unlock_wrapped"
	OpLockNft       Operation = "lock_nft"
	OpUnlockNft     Operation = "unlock_nft"
	OpMintNft       Operation = "mint_nft"
	OpIssueNft      Operation = "issue_nft"
	OpSetRoles      Operation = "set_roles"
)

// Transfer reports whether the operation has a paired action on another chain
// and therefore yields an event id.
func (o Operation) Transfer() bool {
	switch o {
	case OpLockNative, OpUnlockWrapped, OpLockNft, OpUnlockNft:
		return true
	default:
		return false
	}
}

// Stage is a step an operation has completed.
type Stage string

const (
	StageSubmitted Stage = "submitted"
	StageFinalized Stage = "finalized"
	StageExtracted Stage = "extracted"
	StageNotified  Stage = "notified"
	StageFailed    Stage = "failed"
)

// Event describes the progress of one operation.
type Event struct {
	OperationID string
	Operation   Operation
	Stage       Stage
	// Digest is the hex blake2b digest of the unsigned transaction.
	Digest  string
	TxHash  string
	EventID *eventid.ID
	Err     error
}

// Recorder observes operation progress. Record errors are logged and never
// fail the operation.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type operationIDKey struct{}

// WithOperationID attaches a caller chosen operation id to ctx. Operations
// started without one get a random id.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDKey{}, id)
}

// OperationID returns the id attached by WithOperationID.
func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(operationIDKey{}).(string)
	return id
}
