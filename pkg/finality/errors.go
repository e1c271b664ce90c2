package finality

import (
	"errors"
	"fmt"
)

// ErrTimeout is wrapped by a FinalityError when the configured timeout elapses
// while the transaction is still pending.
var ErrTimeout = errors.New("finality wait timed out")

// FinalityError reports a transaction that did not finish successfully or
// whose status could not be determined.
type FinalityError struct {
	Hash string
	// Result is set when the ledger reported a terminal failure.
	Result *Result
	Err    error
}

func (e *FinalityError) Error() string {
	if e.Result != nil {
		return fmt.Sprintf("transaction %s finished with status %q", e.Hash, e.Result.RawStatus)
	}
	return fmt.Sprintf("wait for transaction %s: %v", e.Hash, e.Err)
}

func (e *FinalityError) Unwrap() error {
	return e.Err
}
