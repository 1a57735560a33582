package cron

import (
	"context"
	"fmt"
	"time"
)

// SweepSession clears the login record once it has lapsed.
// Runs every 5 minutes so an expired session dies even while idle.
func (m *CronManager) SweepSession() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	jobName := "sweep_session"

	if err := m.store.SweepSession(ctx); err != nil {
		m.logJobError(jobName, err)
		return
	}
	m.logJobComplete(jobName, "Session record checked")
}

// CleanupOldData trims excess progress entries and stale calendar events.
// Runs daily at 2 AM.
func (m *CronManager) CleanupOldData() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "cleanup_old_data"

	if err := m.store.CleanupNow(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("cleanup failed: %w", err))
		return
	}
	m.logJobComplete(jobName, "Old data trimmed")
}

// BackupSnapshot uploads the current document to the configured Spaces
// bucket. Runs daily at 3 AM when a backup target is configured.
func (m *CronManager) BackupSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "backup_snapshot"

	key, err := m.backup.Run(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("backup failed: %w", err))
		return
	}
	m.logJobComplete(jobName, fmt.Sprintf("Uploaded %s", key))
}
