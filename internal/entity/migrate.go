package entity

import (
	"context"

	"github.com/whazzastream/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Message{},
		&StreamKey{},
		&Setting{},
	)
}
