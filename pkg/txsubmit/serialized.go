package txsubmit

import (
	"context"
	"sync"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
)

// Serialized wraps a Sender so that submissions for the same signer address
// run one at a time within this process. Different signers do not block each other.
// Together with the Submitter's nonce tracking this gives consecutive nonces
// to back-to-back submissions even before the earlier ones are executed.
type Serialized struct {
	next Sender

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSerialized creates a per-signer serializing wrapper around next.
func NewSerialized(next Sender) *Serialized {
	return &Serialized{next: next, locks: make(map[string]*sync.Mutex)}
}

func (s *Serialized) Send(ctx context.Context, signer mvx.Signer, tx *mvx.Transaction) (*Handle, error) {
	l := s.lockFor(signer.Address().Hex())
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &SubmissionError{Stage: StageNonce, Err: err}
	}
	return s.next.Send(ctx, signer, tx)
}

func (s *Serialized) lockFor(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}
