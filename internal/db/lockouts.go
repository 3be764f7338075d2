package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartLockoutResetter clears expired lockouts with interval
func StartLockoutResetter(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := time.Now().Unix()
				res, err := db.ExecContext(ctx, `
                    UPDATE users
                       SET failed_attempts = 0,
                           locked_until = NULL
                     WHERE locked_until IS NOT NULL
                       AND locked_until < $1
                `, now)
				if err != nil {
					log.Error("failed to reset expired lockouts", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("reset expired lockouts", zap.Int64("unlocked", rows))
				}
			}
		}
	}()
}
