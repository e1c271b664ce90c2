package auditdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/audit"
	mghelper "github.com/chainsafe/mvx-bridge-adapter/pkg/pgutil/migrations"
)

var operationIndexes = []string{"tx_hash", "digest", "stage"}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating bridge_operations table...")
		if err := mghelper.CreateSchema(ctx, db, &audit.OperationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &audit.OperationDao{}, operationIndexes...)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping bridge_operations table...")
		if err := mghelper.DropModelIndexes(ctx, db, &audit.OperationDao{}, operationIndexes...); err != nil {
			return err
		}
		return mghelper.DropTables(ctx, db, &audit.OperationDao{})
	})
}
