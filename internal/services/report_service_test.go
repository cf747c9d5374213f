package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	"github.com/findin/findin-backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportStorage struct {
	byID      map[uuid.UUID]*models.Report
	inserted  []*models.Report
	insertErr error
}

func newFakeReportStorage() *fakeReportStorage {
	return &fakeReportStorage{byID: map[uuid.UUID]*models.Report{}}
}

func (f *fakeReportStorage) InsertReport(ctx context.Context, report *models.Report) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, report)
	f.byID[report.ID] = report
	return nil
}

func (f *fakeReportStorage) FindReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReportStorage) ListReports(ctx context.Context) ([]models.Report, error) {
	out := make([]models.Report, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReportStorage) UpdateReportStatus(ctx context.Context, id uuid.UUID, status string, now time.Time) (*models.Report, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	r.Status = status
	if status == models.ReportResolved && r.ResolvedAt == nil {
		r.ResolvedAt = &now
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReportStorage) UpdateReportRadius(ctx context.Context, id uuid.UUID, entry models.RadiusExpansion) error {
	r, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	r.CurrentRadius = entry.Radius
	at := entry.ExpandedAt
	r.LastRadiusExpand = &at
	r.RadiusHistory = append(r.RadiusHistory, entry)
	return nil
}

type fakeUserGetter struct {
	byID map[uuid.UUID]*models.User
}

func (f *fakeUserGetter) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type fakeReportNotifier struct {
	created  []*models.Report
	resolved []*models.Report
	expanded []expansionCall
	err      error
}

type expansionCall struct {
	reportID  uuid.UUID
	newRadius float64
}

func (f *fakeReportNotifier) NotifyReportCreated(ctx context.Context, report *models.Report) error {
	f.created = append(f.created, report)
	return f.err
}

func (f *fakeReportNotifier) NotifyReportResolved(ctx context.Context, report *models.Report, author *models.User) error {
	f.resolved = append(f.resolved, report)
	return f.err
}

func (f *fakeReportNotifier) NotifyRadiusExpansion(ctx context.Context, report *models.Report, newRadius float64) error {
	f.expanded = append(f.expanded, expansionCall{reportID: report.ID, newRadius: newRadius})
	return f.err
}

func testAuthor() *models.User {
	return &models.User{
		ID:                 uuid.New(),
		Email:              "author@example.com",
		FirstName:          "Asha",
		LastName:           "Patel",
		UserType:           models.RoleCitizen,
		IsVerified:         true,
		VerificationStatus: models.VerificationApproved,
	}
}

func validCreateRequest() *dto.CreateReportRequest {
	return &dto.CreateReportRequest{
		Title:       "Missing child near park",
		Description: "Last seen wearing a blue jacket",
		Category:    "missing_person",
		Location:    "Riverside Park",
		ContactInfo: "+15550100",
	}
}

func TestCreateReportSeedsRadiusState(t *testing.T) {
	storage := newFakeReportStorage()
	notifier := &fakeReportNotifier{}
	svc := NewReportService(nil, storage, &fakeUserGetter{}, notifier)

	report, err := svc.CreateReport(context.Background(), testAuthor(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, models.ReportActive, report.Status)
	assert.Equal(t, "MISSING_PERSON", report.Category)
	assert.Equal(t, 5.0, report.InitialRadius)
	assert.Equal(t, 5.0, report.CurrentRadius)
	assert.Equal(t, "MEDIUM", report.Priority)
	require.NotNil(t, report.LastRadiusExpand)

	require.Len(t, report.RadiusHistory, 1)
	entry := report.RadiusHistory[0]
	assert.Equal(t, 5.0, entry.Radius)
	assert.Equal(t, models.ExpandedBySystem, entry.ExpandedBy)
	assert.Equal(t, *report.LastRadiusExpand, entry.ExpandedAt)
}

func TestCreateReportHonorsCustomInitialRadius(t *testing.T) {
	storage := newFakeReportStorage()
	svc := NewReportService(nil, storage, &fakeUserGetter{}, &fakeReportNotifier{})

	req := validCreateRequest()
	req.InitialRadius = 12
	report, err := svc.CreateReport(context.Background(), testAuthor(), req)
	require.NoError(t, err)
	assert.Equal(t, 12.0, report.InitialRadius)
	assert.Equal(t, 12.0, report.CurrentRadius)
}

func TestCreateReportValidatesRequiredFields(t *testing.T) {
	svc := NewReportService(nil, newFakeReportStorage(), &fakeUserGetter{}, &fakeReportNotifier{})

	req := validCreateRequest()
	req.Title = "  "
	_, err := svc.CreateReport(context.Background(), testAuthor(), req)
	assert.Error(t, err)

	req = validCreateRequest()
	req.ContactInfo = ""
	_, err = svc.CreateReport(context.Background(), testAuthor(), req)
	assert.Error(t, err)
}

func TestCreateReportFiresResponderFanOutOnce(t *testing.T) {
	storage := newFakeReportStorage()
	notifier := &fakeReportNotifier{}
	svc := NewReportService(nil, storage, &fakeUserGetter{}, notifier)

	report, err := svc.CreateReport(context.Background(), testAuthor(), validCreateRequest())
	require.NoError(t, err)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, report.ID, notifier.created[0].ID)
}

func TestCreateReportSucceedsWhenFanOutFails(t *testing.T) {
	storage := newFakeReportStorage()
	notifier := &fakeReportNotifier{err: errors.New("directory unavailable")}
	svc := NewReportService(nil, storage, &fakeUserGetter{}, notifier)

	report, err := svc.CreateReport(context.Background(), testAuthor(), validCreateRequest())
	require.NoError(t, err)
	assert.Len(t, storage.inserted, 1)
	assert.NotNil(t, report)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewReportService(nil, newFakeReportStorage(), &fakeUserGetter{}, &fakeReportNotifier{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "ARCHIVED")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusNotifiesAuthorOnFirstResolve(t *testing.T) {
	storage := newFakeReportStorage()
	author := testAuthor()
	users := &fakeUserGetter{byID: map[uuid.UUID]*models.User{author.ID: author}}
	notifier := &fakeReportNotifier{}
	svc := NewReportService(nil, storage, users, notifier)

	report, err := svc.CreateReport(context.Background(), author, validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), report.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.Len(t, notifier.resolved, 1)

	// Resolving an already resolved report must not notify again and must
	// keep the original resolution time.
	firstResolvedAt := *updated.ResolvedAt
	again, err := svc.UpdateStatus(context.Background(), report.ID, models.ReportResolved)
	require.NoError(t, err)
	assert.Len(t, notifier.resolved, 1)
	require.NotNil(t, again.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *again.ResolvedAt)
}

func TestUpdateStatusUnknownReport(t *testing.T) {
	svc := NewReportService(nil, newFakeReportStorage(), &fakeUserGetter{}, &fakeReportNotifier{})

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), models.ReportResolved)
	assert.ErrorIs(t, err, ErrReportNotFound)
}
