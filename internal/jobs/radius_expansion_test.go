package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportStore struct {
	mu      sync.Mutex
	reports []models.Report

	findErr    error
	updateErr  map[uuid.UUID]error
	updates    []radiusUpdate
	findDelay  time.Duration
	findCalled int
}

type radiusUpdate struct {
	id    uuid.UUID
	entry models.RadiusExpansion
}

func (f *fakeReportStore) FindActiveReports(ctx context.Context) ([]models.Report, error) {
	f.mu.Lock()
	f.findCalled++
	delay := f.findDelay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Report, len(f.reports))
	copy(out, f.reports)
	return out, nil
}

func (f *fakeReportStore) UpdateReportRadius(ctx context.Context, id uuid.UUID, entry models.RadiusExpansion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.updateErr[id]; ok {
		return err
	}
	f.updates = append(f.updates, radiusUpdate{id: id, entry: entry})
	for i := range f.reports {
		if f.reports[i].ID == id {
			f.reports[i].CurrentRadius = entry.Radius
			at := entry.ExpandedAt
			f.reports[i].LastRadiusExpand = &at
		}
	}
	return nil
}

func (f *fakeReportStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
	panic bool
}

type notifyCall struct {
	reportID  uuid.UUID
	newRadius float64
}

func (f *fakeNotifier) NotifyRadiusExpansion(ctx context.Context, report *models.Report, newRadius float64) error {
	if f.panic {
		panic("notifier exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{reportID: report.ID, newRadius: newRadius})
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func activeReport(radius float64, lastExpand time.Time) models.Report {
	at := lastExpand
	return models.Report{
		ID:               uuid.New(),
		Title:            "Missing person near station",
		Status:           models.ReportActive,
		InitialRadius:    5,
		CurrentRadius:    radius,
		LastRadiusExpand: &at,
	}
}

func newTestEngine(store ReportStore, notifier Notifier, now time.Time) *RadiusExpansionEngine {
	e := NewRadiusExpansionEngine(store, notifier)
	e.now = func() time.Time { return now }
	return e
}

func TestRunCycleSkipsReportsYoungerThanThreshold(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeReportStore{reports: []models.Report{
		activeReport(5, now.Add(-23*time.Hour)),
	}}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	assert.Zero(t, store.updateCount())
	assert.Zero(t, notifier.callCount())
}

func TestRunCycleExpandsEligibleReportByOneStep(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	report := activeReport(5, now.Add(-30*time.Hour))
	store := &fakeReportStore{reports: []models.Report{report}}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	require.Len(t, store.updates, 1)
	entry := store.updates[0].entry
	assert.Equal(t, report.ID, store.updates[0].id)
	assert.Equal(t, 10.0, entry.Radius)
	assert.Equal(t, models.ExpandedBySystem, entry.ExpandedBy)
	assert.Equal(t, now, entry.ExpandedAt)
	assert.Nil(t, entry.Reason)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, report.ID, notifier.calls[0].reportID)
	assert.Equal(t, 10.0, notifier.calls[0].newRadius)
}

func TestRunCycleExpandsAtExactThreshold(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeReportStore{reports: []models.Report{
		activeReport(5, now.Add(-24*time.Hour)),
	}}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	assert.Equal(t, 1, store.updateCount())
}

func TestRunCycleExpandsSingleStepRegardlessOfElapsedTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeReportStore{reports: []models.Report{
		activeReport(5, now.Add(-100*time.Hour)),
	}}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	require.Len(t, store.updates, 1)
	assert.Equal(t, 10.0, store.updates[0].entry.Radius)
}

func TestRunCycleUsesCreatedAtWhenNeverExpanded(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	report := models.Report{
		ID:            uuid.New(),
		Status:        models.ReportActive,
		CurrentRadius: 15,
	}
	report.CreatedAt = now.Add(-25 * time.Hour)
	store := &fakeReportStore{reports: []models.Report{report}}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	require.Len(t, store.updates, 1)
	assert.Equal(t, 20.0, store.updates[0].entry.Radius)
}

func TestRunCycleSkipsWhilePreviousCycleStillRunning(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeReportStore{
		reports:   []models.Report{activeReport(5, now.Add(-30 * time.Hour))},
		findDelay: 150 * time.Millisecond,
	}
	notifier := &fakeNotifier{}
	e := newTestEngine(store, notifier, now)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.RunCycle(context.Background())
	}()

	time.Sleep(30 * time.Millisecond)
	e.RunCycle(context.Background()) // must be skipped, first cycle holds the flag
	wg.Wait()

	assert.Equal(t, 1, store.updateCount())
	assert.Equal(t, 1, notifier.callCount())
}

func TestRunCycleContinuesPastFailingReport(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	first := activeReport(5, now.Add(-30*time.Hour))
	second := activeReport(10, now.Add(-30*time.Hour))
	third := activeReport(15, now.Add(-30*time.Hour))
	store := &fakeReportStore{
		reports:   []models.Report{first, second, third},
		updateErr: map[uuid.UUID]error{second.ID: errors.New("deadlock detected")},
	}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	require.Len(t, store.updates, 2)
	assert.Equal(t, first.ID, store.updates[0].id)
	assert.Equal(t, third.ID, store.updates[1].id)

	// The failed report got no notification either.
	require.Len(t, notifier.calls, 2)
	for _, call := range notifier.calls {
		assert.NotEqual(t, second.ID, call.reportID)
	}
}

func TestRunCycleSurvivesStoreError(t *testing.T) {
	store := &fakeReportStore{findErr: errors.New("connection refused")}
	notifier := &fakeNotifier{}

	e := newTestEngine(store, notifier, time.Now())
	e.RunCycle(context.Background())

	assert.Zero(t, notifier.callCount())
	// The flag must be released so the next cycle can run.
	assert.False(t, e.running.Load())
}

func TestRunCycleSurvivesNotifierPanic(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeReportStore{reports: []models.Report{
		activeReport(5, now.Add(-30 * time.Hour)),
	}}
	notifier := &fakeNotifier{panic: true}

	e := newTestEngine(store, notifier, now)
	assert.NotPanics(t, func() { e.RunCycle(context.Background()) })
	assert.False(t, e.running.Load())
}

func TestRunCycleNotificationFailureDoesNotUndoExpansion(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := &fakeReportStore{reports: []models.Report{
		activeReport(5, now.Add(-30 * time.Hour)),
	}}
	notifier := &fakeNotifier{err: errors.New("smtp unreachable")}

	e := newTestEngine(store, notifier, now)
	e.RunCycle(context.Background())

	assert.Equal(t, 1, store.updateCount())
}

func TestStartStopIdempotence(t *testing.T) {
	store := &fakeReportStore{}
	e := NewRadiusExpansionEngine(store, &fakeNotifier{})
	e.interval = time.Hour

	e.Start()
	e.Start() // second Start is a no-op
	e.Stop()
	e.Stop() // second Stop is a no-op
	e.Wait()

	// Start runs one immediate cycle; the duplicate Start must not add one.
	assert.Equal(t, 1, store.findCalled)

	// The engine is restartable after Stop.
	e.Start()
	e.Stop()
	e.Wait()
	assert.Equal(t, 2, store.findCalled)
}
