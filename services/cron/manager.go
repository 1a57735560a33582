package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sahilchouksey/sage-api/services/backup"
	"github.com/sahilchouksey/sage-api/store"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron   *cron.Cron
	store  *store.Store
	backup *backup.Service
}

// NewCronManager creates a new cron manager. The backup service may be
// nil when no backup target is configured.
func NewCronManager(st *store.Store, bk *backup.Service) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:   c,
		store:  st,
		backup: bk,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	// Register all jobs
	if err := m.registerJobs(); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every 5 minutes: sweep lapsed login sessions
	_, err := m.cron.AddFunc("0 */5 * * * *", func() {
		m.logJobStart("sweep_session")
		m.SweepSession()
	})
	if err != nil {
		return err
	}

	// 2. Daily at 2 AM: evict old progress and calendar data
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.logJobStart("cleanup_old_data")
		m.CleanupOldData()
	})
	if err != nil {
		return err
	}

	// 3. Daily at 3 AM: upload a backup snapshot (when configured)
	if m.backup != nil {
		_, err = m.cron.AddFunc("0 0 3 * * *", func() {
			m.logJobStart("backup_snapshot")
			m.BackupSnapshot()
		})
		if err != nil {
			return err
		}
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)
}
