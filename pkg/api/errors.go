package api

import (
	"context"
	"errors"

	apperrors "github.com/chainsafe/mvx-bridge-adapter/pkg/app/errors"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/audit"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/finality"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/inventory"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/notifier"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"
)

// toServiceError maps component errors to HTTP error categories.
func toServiceError(err error) error {
	var se *apperrors.ServiceError
	if errors.As(err, &se) {
		return err
	}

	var (
		submitErr   *txsubmit.SubmissionError
		finalErr    *finality.FinalityError
		extractErr  *eventid.ExtractionError
		notifyErr   *notifier.NotificationError
		envelopeErr *mvx.EnvelopeError
	)

	switch {
	case errors.Is(err, bridge.ErrInvalidRequest):
		return apperrors.BadRequestError(err, err.Error())
	case errors.Is(err, finality.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return apperrors.TimeoutError(err, "timed out waiting for the ledger")
	case errors.Is(err, inventory.ErrNotFound), errors.Is(err, audit.ErrNotFound):
		return apperrors.ResourceNotFoundError(err, "not found")
	case errors.Is(err, inventory.ErrNotNft):
		return apperrors.ResourceNotFoundError(err, "locked item is not an nft")
	case errors.As(err, &extractErr):
		return apperrors.GeneralError(err)
	case errors.As(err, &submitErr):
		return apperrors.DependencyError(err, "transaction "+string(submitErr.Stage)+" failed")
	case errors.As(err, &finalErr):
		return apperrors.DependencyError(err, "transaction did not succeed on the ledger")
	case errors.As(err, &notifyErr):
		return apperrors.DependencyError(err, "relay notification failed")
	case errors.As(err, &envelopeErr):
		return apperrors.DependencyError(err, "ledger gateway error")
	default:
		return apperrors.GeneralError(err)
	}
}
