package CronJobs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"Summit/Models"

	"github.com/robfig/cron/v3"
)

// LogRetention prunes old request audit rows on a daily schedule.
type LogRetention struct {
	cronScheduler *cron.Cron
	retentionDays int
	jobID         cron.EntryID
}

// NewLogRetention reads LOG_RETENTION_DAYS from the environment, defaulting
// to 30 days.
func NewLogRetention() *LogRetention {
	days := 30
	if v := os.Getenv("LOG_RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return &LogRetention{
		cronScheduler: cron.New(),
		retentionDays: days,
	}
}

// Start schedules the daily prune at 2:00 AM.
func (l *LogRetention) Start() error {
	var err error
	l.jobID, err = l.cronScheduler.AddFunc("0 2 * * *", func() {
		log.Println("Running scheduled request log prune")
		l.prune()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}
	l.cronScheduler.Start()
	return nil
}

// Stop terminates the scheduler.
func (l *LogRetention) Stop() {
	if l.cronScheduler != nil {
		l.cronScheduler.Stop()
		log.Println("Log retention scheduler stopped")
	}
}

func (l *LogRetention) prune() {
	if Models.DB == nil {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)
	result := Models.DB.Unscoped().
		Where("timestamp < ?", cutoff).
		Delete(&Models.RequestLog{})
	if result.Error != nil {
		log.Printf("Error pruning request logs: %v", result.Error)
		return
	}
	log.Printf("Pruned %d request logs older than %d days", result.RowsAffected, l.retentionDays)
}
