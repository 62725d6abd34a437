package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/models"
)

const reminderJob = "challan_reminder_job"

// ReminderNotifier emails a rider the list of their unpaid challans
type ReminderNotifier interface {
	PendingReminder(ctx context.Context, rider models.Rider, challans []models.Challan) error
}

// Scheduler handles periodic background jobs for challan collection
type Scheduler struct {
	cron          *cron.Cron
	RDB           databases.RiderDatabase
	CDB           databases.ChallanDatabase
	LockDB        databases.SchedulerLockDatabase
	Notifier      ReminderNotifier
	Schedule      string
	ReminderAfter time.Duration
	instanceID    string
	now           func() time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	conf config.SchedulerConfig,
	rDB databases.RiderDatabase,
	cDB databases.ChallanDatabase,
	lockDB databases.SchedulerLockDatabase,
	notifier ReminderNotifier,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		RDB:           rDB,
		CDB:           cDB,
		LockDB:        lockDB,
		Notifier:      notifier,
		Schedule:      conf.ReminderSchedule,
		ReminderAfter: conf.ReminderAfter,
		instanceID:    instanceID,
		now:           time.Now,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	// Remind riders about challans left unpaid, daily at 3 AM UTC by default
	_, err := s.cron.AddFunc(s.Schedule, s.processReminders)
	if err != nil {
		return fmt.Errorf("failed to register challan reminder job: %w", err)
	}

	s.cron.Start()
	zap.S().Infow("Challan scheduler started", "schedule", s.Schedule)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Challan scheduler stopped")
}

// processReminders runs SendPendingReminders under the distributed lock
func (s *Scheduler) processReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, reminderJob, s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for challan reminder job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Challan reminder job already running on another instance, skipping")
		return
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(ctx, reminderJob, s.instanceID); err != nil {
			zap.S().Warnw("failed to release challan reminder lock", "error", err)
		}
	}()

	if _, err := s.SendPendingReminders(ctx); err != nil {
		zap.S().Errorw("challan reminder job failed", "error", err)
	}
}

// SendPendingReminders emails every rider holding a challan that has been
// pending for longer than ReminderAfter. It returns the number of riders emailed.
func (s *Scheduler) SendPendingReminders(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ReminderAfter)
	zap.S().Infow("Running challan reminder job", "instance", s.instanceID, "cutoff", cutoff)

	challans, err := s.CDB.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find pending challans: %w", err)
	}

	byRider := make(map[primitive.ObjectID][]models.Challan)
	var order []primitive.ObjectID
	for _, c := range challans {
		if _, ok := byRider[c.User]; !ok {
			order = append(order, c.User)
		}
		byRider[c.User] = append(byRider[c.User], c)
	}

	sent := 0
	for _, riderID := range order {
		rider, err := s.RDB.FindOne(ctx, bson.M{"_id": riderID})
		if err != nil {
			zap.S().Warnw("failed to load rider for reminder", "rider", riderID.Hex(), "error", err)
			continue
		}
		if err := s.Notifier.PendingReminder(ctx, *rider, byRider[riderID]); err != nil {
			zap.S().Warnw("failed to send challan reminder", "rider", riderID.Hex(), "error", err)
			continue
		}
		sent++
	}

	zap.S().Infow("Challan reminder job complete",
		"pendingChallans", len(challans),
		"ridersNotified", sent,
	)
	return sent, nil
}
