package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the audit store
func NewStore(db *bun.DB) Store {
	return &pgStore{db: db}
}

// Record upserts the operation row. Later stages overwrite the stage; fields
// already set are kept when the event leaves them empty.
func (s *pgStore) Record(ctx context.Context, ev bridge.Event) error {
	id, err := uuid.Parse(ev.OperationID)
	if err != nil {
		return fmt.Errorf("invalid operation id %q: %w", ev.OperationID, err)
	}

	_, err = s.db.NewInsert().
		Model(toOperationDao(id, ev)).
		On("CONFLICT (id) DO UPDATE").
		Set("stage = EXCLUDED.stage").
		Set("tx_hash = COALESCE(EXCLUDED.tx_hash, o.tx_hash)").
		Set("event_id = COALESCE(EXCLUDED.event_id, o.event_id)").
		Set("error = COALESCE(EXCLUDED.error, o.error)").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record operation: %w", err)
	}
	return nil
}

func (s *pgStore) Get(ctx context.Context, id string) (*Record, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	dao := new(OperationDao)
	err = s.db.NewSelect().
		Model(dao).
		Where("id = ?", uid).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return toRecord(dao), nil
}

func (s *pgStore) ListByTxHash(ctx context.Context, txHash string) ([]*Record, error) {
	var daos []OperationDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("tx_hash = ?", txHash).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}

	out := make([]*Record, len(daos))
	for i := range daos {
		out[i] = toRecord(&daos[i])
	}
	return out, nil
}
