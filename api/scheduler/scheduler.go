package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/databases"
	"github.com/linesmerrill/festival-registration-api/registration"
)

const (
	// ReconcileSchedule runs the payment sweep every 10 minutes
	ReconcileSchedule = "*/10 * * * *"
	// ReconcileLock is the distributed lock guarding the sweep
	ReconcileLock = "reconcile_pending_payments"

	reconcileTimeout = 5 * time.Minute
	reconcileLockTTL = 10 * time.Minute
)

// Reconciler sweeps payments that were never confirmed by verify or webhook
type Reconciler interface {
	ReconcileAwaitingPayments(ctx context.Context) (registration.ReconcileReport, error)
}

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron       *cron.Cron
	Reconciler Reconciler
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(reconciler Reconciler, lockDB databases.SchedulerLockDatabase) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%s", uuid.NewString())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Reconciler: reconciler,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(ReconcileSchedule, s.reconcilePayments); err != nil {
		zap.S().Errorw("failed to register reconcile job", "error", err)
		return err
	}

	s.cron.Start()
	zap.S().Infow("payment reconciliation scheduler started", "instance", s.instanceID)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sweep
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("payment reconciliation scheduler stopped")
}

// reconcilePayments runs one sweep if no other instance holds the lock
func (s *Scheduler) reconcilePayments() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, ReconcileLock, s.instanceID, reconcileLockTTL)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for reconcile job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("reconcile job already running on another instance, skipping")
		return
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(context.Background(), ReconcileLock, s.instanceID); err != nil {
			zap.S().Warnw("failed to release reconcile lock", "error", err)
		}
	}()

	start := time.Now()
	report, err := s.Reconciler.ReconcileAwaitingPayments(ctx)
	if err != nil {
		zap.S().Errorw("reconcile job failed", "error", err, "checked", report.Checked)
		return
	}

	zap.S().Infow("reconcile job finished",
		"instance", s.instanceID,
		"checked", report.Checked,
		"finalized", report.Finalized,
		"failed", report.Failed,
		"errors", report.Errors,
		"duration", time.Since(start),
	)
}
