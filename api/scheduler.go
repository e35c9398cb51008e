/*
scheduler.go - Automated period-end payroll scheduler

PURPOSE:
  Periodically checks whether the most recent semi-monthly cutoff has
  ended without a persisted run, and processes it automatically.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Computes cutoffs in the engine's reference timezone (1st-15th and
    16th-end of month)
  - Skips periods that already have persisted entries, so a manual run
    is never overwritten by the scheduler
  - Logs every automatic run for audit

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPayrollScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - payroll.go: runPeriod (the same path the manual endpoint uses)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// PayrollScheduler processes ended pay periods automatically.
type PayrollScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPayrollScheduler creates a new scheduler.
func NewPayrollScheduler(handler *Handler) *PayrollScheduler {
	return &PayrollScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ps *PayrollScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	log.Printf("[Scheduler] Started with check interval: %v", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *PayrollScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ps *PayrollScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.checkAndProcess()

	for {
		select {
		case <-ps.ticker.C:
			ps.checkAndProcess()
		case <-ps.stop:
			return
		}
	}
}

// checkAndProcess runs the last ended cutoff if it has no entries yet.
func (ps *PayrollScheduler) checkAndProcess() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now().In(ps.Handler.Config.Location)
	periodStart, periodEnd := LastEndedPeriod(now)

	existing, err := ps.Handler.Store.ListEntries(ctx, periodStart, periodEnd)
	if err != nil {
		log.Printf("[Scheduler] Failed to check period %s: %v", periodStart.Format("2006-01-02"), err)
		return
	}
	if len(existing) > 0 {
		return // already processed
	}

	result, err := ps.Handler.runPeriod(ctx, periodStart, periodEnd)
	if err != nil {
		log.Printf("[Scheduler] Payroll run failed for period %s: %v", periodStart.Format("2006-01-02"), err)
		return
	}
	log.Printf("[Scheduler] Processed period %s to %s: %d employees, gross %s",
		periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"),
		result.EmployeeCount, result.TotalGross)
}

// LastEndedPeriod returns the most recent semi-monthly cutoff fully in
// the past: [1st, 16th) or [16th, 1st of next month) of the reference
// timezone.
func LastEndedPeriod(now time.Time) (start, end time.Time) {
	loc := now.Location()
	year, month, day := now.Date()

	switch {
	case day >= 16:
		// First half of this month has ended.
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		end = time.Date(year, month, 16, 0, 0, 0, 0, loc)
	default:
		// Second half of last month has ended.
		end = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		start = time.Date(year, month-1, 16, 0, 0, 0, 0, loc)
	}
	return start, end
}
