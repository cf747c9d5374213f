// Package jobs holds the scheduler-driven background work: the hourly
// radius expansion cycle over active reports.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
)

// ReportStore is the slice of report storage the engine needs.
type ReportStore interface {
	FindActiveReports(ctx context.Context) ([]models.Report, error)
	UpdateReportRadius(ctx context.Context, id uuid.UUID, entry models.RadiusExpansion) error
}

// Notifier triggers the fan-out coupled to each expansion.
type Notifier interface {
	NotifyRadiusExpansion(ctx context.Context, report *models.Report, newRadius float64) error
}

const (
	defaultCycleInterval = time.Hour
	defaultExpandAfter   = 24 * time.Hour
	defaultRadiusStepKm  = 5
)

// RadiusExpansionEngine periodically widens each active report's alert
// radius. It runs one cycle immediately on Start, then one per interval.
// At most one cycle executes at a time: a tick that fires while a cycle is
// still running is skipped outright, never queued, so a slow cycle can miss
// expansions but never double them.
//
// The running flag is process-local. With multiple replicas, concurrent
// cycles across processes are not prevented; that deployment would need a
// lease held in the shared store instead.
type RadiusExpansionEngine struct {
	store    ReportStore
	notifier Notifier

	interval    time.Duration
	expandAfter time.Duration
	stepKm      float64
	now         func() time.Time

	running atomic.Bool

	mu     sync.Mutex
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewRadiusExpansionEngine(store ReportStore, notifier Notifier) *RadiusExpansionEngine {
	return &RadiusExpansionEngine{
		store:       store,
		notifier:    notifier,
		interval:    defaultCycleInterval,
		expandAfter: defaultExpandAfter,
		stepKm:      defaultRadiusStepKm,
		now:         time.Now,
	}
}

// Start launches the scheduler. Calling Start on a running engine is a
// no-op.
func (e *RadiusExpansionEngine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done != nil {
		return
	}

	e.done = make(chan struct{})
	e.ticker = time.NewTicker(e.interval)
	done := e.done
	ticker := e.ticker

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.RunCycle(context.Background())
	}()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case <-ticker.C:
				e.RunCycle(context.Background())
			case <-done:
				return
			}
		}
	}()

	slog.Info("radius expansion engine started", "interval", e.interval.String())
}

// Stop cancels future ticks. An in-flight cycle is allowed to finish.
// Calling Stop on a stopped engine is a no-op; Start may be called again
// afterwards.
func (e *RadiusExpansionEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done == nil {
		return
	}

	e.ticker.Stop()
	close(e.done)
	e.done = nil
	e.ticker = nil

	slog.Info("radius expansion engine stopped")
}

// Wait blocks until the scheduler goroutines of a stopped engine exit.
func (e *RadiusExpansionEngine) Wait() {
	e.wg.Wait()
}

// RunCycle executes one scan-and-expand pass. All failure is contained
// here: a failed or panicking cycle is logged and never reaches the
// scheduler or the process.
func (e *RadiusExpansionEngine) RunCycle(ctx context.Context) {
	if !e.running.CompareAndSwap(false, true) {
		slog.Warn("previous radius expansion cycle still running, skipping tick")
		return
	}
	defer e.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("radius expansion cycle panicked", "panic", r)
		}
	}()

	reports, err := e.store.FindActiveReports(ctx)
	if err != nil {
		slog.Error("radius expansion cycle failed", "error", err)
		return
	}
	if len(reports) == 0 {
		return
	}

	now := e.now()

	for i := range reports {
		report := &reports[i]

		// Strictly-less skip: at >= 24h the report expands, and only by a
		// single step no matter how much time has elapsed.
		if now.Sub(report.LastExpandOrCreated()) < e.expandAfter {
			continue
		}

		newRadius := report.CurrentRadius + e.stepKm
		entry := models.RadiusExpansion{
			Radius:     newRadius,
			ExpandedAt: now,
			ExpandedBy: models.ExpandedBySystem,
		}

		// A failed write leaves last_radius_expand untouched, so the report
		// is retried on the next eligible cycle. Other reports proceed.
		if err := e.store.UpdateReportRadius(ctx, report.ID, entry); err != nil {
			slog.Error("radius expansion failed", "report_id", report.ID.String(), "error", err)
			continue
		}

		if err := e.notifier.NotifyRadiusExpansion(ctx, report, newRadius); err != nil {
			slog.Error("radius expansion notification failed", "report_id", report.ID.String(), "error", err)
		}

		slog.Info("expanded report radius", "report_id", report.ID.String(), "radius_km", newRadius)
	}
}
