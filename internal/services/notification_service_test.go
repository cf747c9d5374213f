package services

import (
	"context"
	"errors"
	"testing"

	"github.com/findin/findin-backend/internal/channels"
	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeDirectory struct {
	users     []models.User
	lastRoles []string
	err       error
}

func (f *fakeDirectory) FindVerifiedApprovedUsers(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeDirectory) FindVerifiedApprovedUsersByRole(ctx context.Context, roles []string) ([]models.User, error) {
	f.lastRoles = roles
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		for _, r := range roles {
			if u.UserType == r {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

type fakeNotificationStore struct {
	inserted []models.Notification
	failFor  map[uuid.UUID]error
}

func (f *fakeNotificationStore) InsertNotification(ctx context.Context, n *models.Notification) error {
	if err, ok := f.failFor[n.UserID]; ok {
		return err
	}
	f.inserted = append(f.inserted, *n)
	return nil
}

type recordingSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

func (r *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func verifiedUser(role string, prefs models.PreferredChannels) models.User {
	phone := "+15550100"
	return models.User{
		ID:                 uuid.New(),
		Email:              uuid.NewString() + "@example.com",
		UserType:           role,
		IsVerified:         true,
		VerificationStatus: models.VerificationApproved,
		Phone:              &phone,
		PreferredChannels:  datatypes.NewJSONType(prefs),
	}
}

func testReport() *models.Report {
	return &models.Report{
		ID:            uuid.New(),
		Title:         "Missing child near park",
		Category:      "MISSING_PERSON",
		Location:      "Riverside Park",
		CurrentRadius: 10,
	}
}

func TestNotifyRadiusExpansionPersistsOnePerRecipient(t *testing.T) {
	users := []models.User{
		verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels()),
		verifiedUser(models.RolePolice, models.DefaultPreferredChannels()),
		verifiedUser(models.RoleNGO, models.DefaultPreferredChannels()),
	}
	dir := &fakeDirectory{users: users}
	store := &fakeNotificationStore{}
	svc := NewNotificationService(dir, store, channels.Noop{}, channels.Noop{})

	report := testReport()
	require.NoError(t, svc.NotifyRadiusExpansion(context.Background(), report, 15))

	require.Len(t, store.inserted, 3)
	seen := map[uuid.UUID]bool{}
	for _, n := range store.inserted {
		assert.Equal(t, models.NotificationRadiusExpanded, n.Type)
		assert.Equal(t, "Search Radius Expanded", n.Title)
		assert.Equal(t, `Search radius for "Missing child near park" expanded to 15 km`, n.Message)
		require.NotNil(t, n.ReportID)
		assert.Equal(t, report.ID, *n.ReportID)
		assert.False(t, seen[n.UserID], "recipient notified twice")
		seen[n.UserID] = true
	}
}

func TestNotifyReportCreatedTargetsRespondersOnly(t *testing.T) {
	users := []models.User{
		verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels()),
		verifiedUser(models.RolePolice, models.DefaultPreferredChannels()),
		verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels()),
		verifiedUser(models.RoleNGO, models.DefaultPreferredChannels()),
	}
	dir := &fakeDirectory{users: users}
	store := &fakeNotificationStore{}
	svc := NewNotificationService(dir, store, channels.Noop{}, channels.Noop{})

	require.NoError(t, svc.NotifyReportCreated(context.Background(), testReport()))

	assert.Equal(t, models.ResponderRoles, dir.lastRoles)
	require.Len(t, store.inserted, 2)
	for _, n := range store.inserted {
		assert.Equal(t, models.NotificationReportCreated, n.Type)
	}
}

func TestSaveNotificationDeliversPerPreference(t *testing.T) {
	sms := &recordingSender{}
	email := &recordingSender{}
	store := &fakeNotificationStore{}
	svc := NewNotificationService(&fakeDirectory{}, store, sms, email)

	smsOnly := verifiedUser(models.RoleCitizen, models.PreferredChannels{SMS: true})
	n := &models.Notification{
		Type:    models.NotificationNewComment,
		Title:   "New Comment on Your Report",
		Message: "Asha Patel commented",
		UserID:  smsOnly.ID,
	}
	require.NoError(t, svc.SaveNotification(context.Background(), &smsOnly, n))

	require.Len(t, sms.sent, 1)
	assert.Equal(t, *smsOnly.Phone, sms.sent[0].to)
	assert.Empty(t, email.sent)
}

func TestSaveNotificationSkipsSMSWithoutPhone(t *testing.T) {
	sms := &recordingSender{}
	store := &fakeNotificationStore{}
	svc := NewNotificationService(&fakeDirectory{}, store, sms, &recordingSender{})

	user := verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels())
	user.Phone = nil
	n := &models.Notification{Type: models.NotificationReportResolved, UserID: user.ID}
	require.NoError(t, svc.SaveNotification(context.Background(), &user, n))

	assert.Empty(t, sms.sent)
	assert.Len(t, store.inserted, 1)
}

func TestSaveNotificationSurvivesChannelFailure(t *testing.T) {
	sms := &recordingSender{err: errors.New("gateway timeout")}
	email := &recordingSender{err: errors.New("smtp unreachable")}
	store := &fakeNotificationStore{}
	svc := NewNotificationService(&fakeDirectory{}, store, sms, email)

	user := verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels())
	n := &models.Notification{Type: models.NotificationRadiusExpanded, UserID: user.ID}

	// The persisted record is the source of truth; delivery is best-effort.
	require.NoError(t, svc.SaveNotification(context.Background(), &user, n))
	assert.Len(t, store.inserted, 1)
}

func TestSaveNotificationFailsWhenPersistenceFails(t *testing.T) {
	user := verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels())
	store := &fakeNotificationStore{failFor: map[uuid.UUID]error{user.ID: errors.New("disk full")}}
	sms := &recordingSender{}
	svc := NewNotificationService(&fakeDirectory{}, store, sms, &recordingSender{})

	n := &models.Notification{Type: models.NotificationRadiusExpanded, UserID: user.ID}
	require.Error(t, svc.SaveNotification(context.Background(), &user, n))

	// No delivery without a stored record.
	assert.Empty(t, sms.sent)
}

func TestNotifyRadiusExpansionContinuesPastFailedRecipient(t *testing.T) {
	users := []models.User{
		verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels()),
		verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels()),
		verifiedUser(models.RoleCitizen, models.DefaultPreferredChannels()),
	}
	store := &fakeNotificationStore{failFor: map[uuid.UUID]error{users[1].ID: errors.New("constraint violation")}}
	svc := NewNotificationService(&fakeDirectory{users: users}, store, channels.Noop{}, channels.Noop{})

	require.NoError(t, svc.NotifyRadiusExpansion(context.Background(), testReport(), 15))
	assert.Len(t, store.inserted, 2)
}

func TestNotifyVerificationStatusMessageDependsOnOutcome(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(&fakeDirectory{}, store, channels.Noop{}, channels.Noop{})

	approved := verifiedUser(models.RoleCitizen, models.PreferredChannels{})
	require.NoError(t, svc.NotifyVerificationStatus(context.Background(), &approved, models.VerificationApproved))

	rejected := verifiedUser(models.RoleCitizen, models.PreferredChannels{})
	require.NoError(t, svc.NotifyVerificationStatus(context.Background(), &rejected, models.VerificationRejected))

	require.Len(t, store.inserted, 2)
	assert.Contains(t, store.inserted[0].Message, "approved")
	assert.Contains(t, store.inserted[1].Message, "rejected")
}
