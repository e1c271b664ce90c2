package audit

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
)

// OperationDao is a data access object that maps directly to the 'bridge_operations' table in PostgreSQL.
type OperationDao struct {
	bun.BaseModel `bun:"table:bridge_operations,alias:o"`
	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	Operation     string    `bun:"operation,notnull,type:varchar(32)"`
	Stage         string    `bun:"stage,notnull,type:varchar(16)"`
	Digest        string    `bun:"digest,notnull,type:varchar(64)"`
	TxHash        *string   `bun:"tx_hash,type:varchar(128)"`
	EventID       *string   `bun:"event_id,type:numeric(20,0)"`
	Error         *string   `bun:"error,type:text"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Record is the audit view of one bridge operation.
type Record struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Stage     string    `json:"stage"`
	Digest    string    `json:"digest"`
	TxHash    string    `json:"tx_hash,omitempty"`
	EventID   *uint64   `json:"event_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOperationDao(id uuid.UUID, ev bridge.Event) *OperationDao {
	dao := &OperationDao{
		ID:        id,
		Operation: string(ev.Operation),
		Stage:     string(ev.Stage),
		Digest:    ev.Digest,
	}
	if ev.TxHash != "" {
		dao.TxHash = &ev.TxHash
	}
	if ev.EventID != nil {
		s := ev.EventID.String()
		dao.EventID = &s
	}
	if ev.Err != nil {
		s := ev.Err.Error()
		dao.Error = &s
	}
	return dao
}

func toRecord(dao *OperationDao) *Record {
	rec := &Record{
		ID:        dao.ID.String(),
		Operation: dao.Operation,
		Stage:     dao.Stage,
		Digest:    dao.Digest,
		CreatedAt: dao.CreatedAt,
		UpdatedAt: dao.UpdatedAt,
	}
	if dao.TxHash != nil {
		rec.TxHash = *dao.TxHash
	}
	if dao.EventID != nil {
		if v, err := strconv.ParseUint(*dao.EventID, 10, 64); err == nil {
			rec.EventID = &v
		}
	}
	if dao.Error != nil {
		rec.Error = *dao.Error
	}
	return rec
}
