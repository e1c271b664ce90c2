// Package notifier forwards extracted event identifiers to the relay service.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chainsafe/mvx-bridge-adapter/internal/metrics"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TransferPath is the relay endpoint notified for every finalized transfer.
const TransferPath = "/tx/transfer"

// Config holds the relay endpoint settings.
type Config struct {
	URL     string        `validate:"required,url"`
	Timeout time.Duration `default:"10s"`
}

// NotificationError is returned when the relay could not be notified.
// StatusCode is zero when no response was received.
type NotificationError struct {
	ID         eventid.ID
	StatusCode int
	Err        error
}

func (e *NotificationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("notify relay of event %s: status %d", e.ID, e.StatusCode)
	}
	return fmt.Sprintf("notify relay of event %s: %v", e.ID, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

type transferRequest struct {
	ID string `json:"id"`
}

// Notifier informs the relay that an event is ready for the paired action.
type Notifier struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new relay notifier.
func New(cfg *Config, logger *zap.Logger) (*Notifier, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid relay config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		url:        strings.TrimRight(cfg.URL, "/") + TransferPath,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// Notify sends exactly one request for id, carried both as the "id" header and
// in the JSON body. It does not retry and ignores the response body; any
// non-2xx status is a failure.
func (n *Notifier) Notify(ctx context.Context, id eventid.ID) error {
	body, err := json.Marshal(transferRequest{ID: id.String()})
	if err != nil {
		return n.fail(&NotificationError{ID: id, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return n.fail(&NotificationError{ID: id, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("id", id.String())

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return n.fail(&NotificationError{ID: id, Err: err})
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return n.fail(&NotificationError{
			ID:         id,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("relay responded %s", resp.Status),
		})
	}

	metrics.NotificationsTotal.WithLabelValues("success").Inc()
	n.logger.Info("Relay notified", zap.String("event_id", id.String()))
	return nil
}

func (n *Notifier) fail(err *NotificationError) error {
	metrics.NotificationsTotal.WithLabelValues("failed").Inc()
	n.logger.Error("Relay notification failed",
		zap.String("event_id", err.ID.String()),
		zap.Int("status_code", err.StatusCode),
		zap.Error(err.Err))
	return err
}
