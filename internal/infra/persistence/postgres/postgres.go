// Package postgres implements the credential store on PostgreSQL through GORM.
package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"market/config"
	"market/internal/domain/lifecycle"
	"market/internal/errors"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolMonitorInterval   = 5 * time.Second
	poolWaitWarnThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the credential store connection and ties it to the Fx lifecycle.
// The store runs against a single primary: single-use token consumption is a
// guarded UPDATE that must observe the latest row state, so reads are never
// routed elsewhere.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open credential store connection")
	}
	db = db.Session(&gorm.Session{
		// Disable GORM's per-statement implicit transaction. The register
		// flow uses explicit transactions via the transaction manager, and
		// the token-consume UPDATEs are atomic on their own.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get credential store sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping credential store")
			}

			go monitorPool(monitorCtx, params.Logger, sqlDB)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// monitorPool periodically samples pool statistics and reports connection
// waits. Sustained waits here mean the auth endpoints are queueing on the
// pool rather than on bcrypt or the network.
func monitorPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(poolMonitorInterval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDuration := cur.WaitDuration - prev.WaitDuration
			prev = cur

			if waitDelta == 0 {
				continue
			}

			attrs := poolWaitAttrs(cur, waitDelta, waitDuration)
			if waitDuration >= poolWaitWarnThreshold {
				logger.LogAttrs(ctx, slog.LevelWarn, "credential store pool wait detected", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelDebug, "credential store pool wait observed", attrs...)
			}
		}
	}
}

func poolWaitAttrs(stats sql.DBStats, waitDelta int64, waitDuration time.Duration) []slog.Attr {
	return []slog.Attr{
		slog.Int64("waitCountDelta", waitDelta),
		slog.Duration("waitDurationDelta", waitDuration),
		slog.Duration("avgWait", waitDuration/time.Duration(waitDelta)),
		slog.Int("maxOpenConns", stats.MaxOpenConnections),
		slog.Int("openConns", stats.OpenConnections),
		slog.Int("inUseConns", stats.InUse),
		slog.Int("idleConns", stats.Idle),
		slog.Int64("waitCountTotal", stats.WaitCount),
		slog.Duration("waitDurationTotal", stats.WaitDuration),
	}
}
