package syncdispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/calendar"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/mailer"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
	"github.com/m04kA/SMC-AssistantBooking/pkg/ptr"
)

type fakeCalendar struct {
	calls    int
	failures []error
	block    bool
	events   []*calendar.Event
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, event *calendar.Event) (string, error) {
	f.calls++
	f.events = append(f.events, event)
	if f.block {
		<-ctx.Done()
		return "", calendar.ErrUnavailable
	}
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return "", err
	}
	return "evt-1", nil
}

type fakeMailer struct {
	sent  []*mailer.Message
	err   error
	calls int
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakePublisher struct {
	published []eventbus.Envelope
}

func (f *fakePublisher) Publish(_ context.Context, env eventbus.Envelope) error {
	f.published = append(f.published, env)
	return nil
}

type fakeAppointments struct {
	eventIDs map[int64]string
}

func (f *fakeAppointments) SetCalendarEventID(_ context.Context, id int64, eventID string) error {
	if _, ok := f.eventIDs[id]; !ok {
		f.eventIDs[id] = eventID
	}
	return nil
}

type fakeSyncTasks struct {
	mu    sync.Mutex
	tasks map[domain.SyncTaskKind]*domain.SyncTask
}

func newFakeSyncTasks() *fakeSyncTasks {
	return &fakeSyncTasks{tasks: make(map[domain.SyncTaskKind]*domain.SyncTask)}
}

func (f *fakeSyncTasks) ListByAppointment(_ context.Context, _ int64) ([]*domain.SyncTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.SyncTask, 0, len(f.tasks))
	for _, t := range f.tasks {
		result = append(result, t)
	}
	return result, nil
}

func (f *fakeSyncTasks) Upsert(_ context.Context, task *domain.SyncTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prev, ok := f.tasks[task.Kind]; ok {
		task.Attempts += prev.Attempts
	}
	f.tasks[task.Kind] = task
	return nil
}

type fakeMetrics struct {
	observed map[string]int
}

func (f *fakeMetrics) ObserveSyncTask(kind, status string) {
	f.observed[kind+"/"+status]++
}

var testConfig = Config{
	Calendar: RetryPolicy{Timeout: time.Second, MaxTries: 3, InitialInterval: time.Millisecond},
	Email:    RetryPolicy{Timeout: time.Second, MaxTries: 2, InitialInterval: time.Millisecond},
	Events:   RetryPolicy{Timeout: time.Second, MaxTries: 2, InitialInterval: time.Millisecond},
}

func fullTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:                1,
		Name:              "Cabinet Dupont",
		Active:            true,
		CalendarID:        ptr.Ptr("cabinet"),
		NotificationEmail: ptr.Ptr("owner@example.fr"),
	}
}

func bookedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:                 42,
		TenantID:           1,
		Owner:              domain.AgentOwner(7),
		SessionRef:         "session-1",
		VisitorName:        "Bruno Martin",
		VisitorEmail:       ptr.Ptr("bruno@example.fr"),
		Date:               time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime:          "15:00",
		DurationMinutes:    30,
		Service:            ptr.Ptr("devis"),
		Status:             domain.StatusConfirmed,
		DistributionMethod: domain.MethodAvailability,
	}
}

func claire() *domain.Agent {
	return &domain.Agent{ID: 7, TenantID: 1, Name: "Claire", Email: ptr.Ptr("claire@example.fr"), Active: true}
}

type deps struct {
	calendar     *fakeCalendar
	mailer       *fakeMailer
	publisher    *fakePublisher
	appointments *fakeAppointments
	syncTasks    *fakeSyncTasks
	metrics      *fakeMetrics
}

func newDeps() *deps {
	return &deps{
		calendar:     &fakeCalendar{},
		mailer:       &fakeMailer{},
		publisher:    &fakePublisher{},
		appointments: &fakeAppointments{eventIDs: make(map[int64]string)},
		syncTasks:    newFakeSyncTasks(),
		metrics:      &fakeMetrics{observed: make(map[string]int)},
	}
}

func (d *deps) service() *Service {
	return NewService(d.calendar, d.mailer, d.publisher, d.appointments, d.syncTasks, d.metrics, nil, testConfig, logger.NewNop())
}

func TestDispatch_AllTasksDone(t *testing.T) {
	d := newDeps()
	appointment := bookedAppointment()

	report := d.service().Dispatch(context.Background(), fullTenant(), appointment, claire())

	for _, kind := range domain.AllSyncTaskKinds {
		assert.True(t, report.Done(kind), kind)
	}
	assert.Empty(t, report.Failed())

	assert.Equal(t, "evt-1", d.appointments.eventIDs[42])
	require.NotNil(t, appointment.CalendarEventID)
	assert.Equal(t, "evt-1", *appointment.CalendarEventID)

	require.Len(t, d.calendar.events, 1)
	event := d.calendar.events[0]
	assert.Equal(t, "cabinet", event.CalendarID)
	assert.Equal(t, "RDV Bruno Martin - devis", event.Title)
	assert.Equal(t, 30*time.Minute, event.End.Sub(event.Start))

	require.Len(t, d.mailer.sent, 2)
	assert.Equal(t, []string{"owner@example.fr"}, d.mailer.sent[0].To)
	assert.Equal(t, []string{"claire@example.fr"}, d.mailer.sent[0].Cc)
	assert.Equal(t, []string{"bruno@example.fr"}, d.mailer.sent[1].To)

	require.Len(t, d.publisher.published, 1)
	assert.Equal(t, eventbus.TypeAppointmentBooked, d.publisher.published[0].Meta.Type)

	assert.Equal(t, 1, d.metrics.observed["calendar/done"])
	assert.Equal(t, domain.SyncDone, d.syncTasks.tasks[domain.SyncVisitorEmail].Status)
}

func TestDispatch_SkipsWithoutTargets(t *testing.T) {
	d := newDeps()
	tenant := &domain.Tenant{ID: 1, Active: true}
	appointment := bookedAppointment()
	appointment.VisitorEmail = nil

	s := NewService(d.calendar, d.mailer, nil, d.appointments, d.syncTasks, d.metrics, nil, testConfig, logger.NewNop())
	report := s.Dispatch(context.Background(), tenant, appointment, nil)

	for _, kind := range domain.AllSyncTaskKinds {
		assert.Equal(t, domain.SyncSkipped, report.Status(kind), kind)
	}
	assert.Zero(t, d.calendar.calls)
	assert.Empty(t, d.mailer.sent)
}

func TestDispatch_OwnerEmailFallsBackToAgent(t *testing.T) {
	d := newDeps()
	tenant := fullTenant()
	tenant.NotificationEmail = nil

	d.service().Dispatch(context.Background(), tenant, bookedAppointment(), claire())

	require.NotEmpty(t, d.mailer.sent)
	assert.Equal(t, []string{"claire@example.fr"}, d.mailer.sent[0].To)
	assert.Empty(t, d.mailer.sent[0].Cc)
}

func TestDispatch_TransientCalendarFailureRetried(t *testing.T) {
	d := newDeps()
	d.calendar.failures = []error{calendar.ErrUnavailable, calendar.ErrUnavailable}

	report := d.service().Dispatch(context.Background(), fullTenant(), bookedAppointment(), claire())

	assert.True(t, report.Done(domain.SyncCalendar))
	assert.Equal(t, 3, d.calendar.calls)
	assert.Equal(t, 3, d.syncTasks.tasks[domain.SyncCalendar].Attempts)
}

func TestDispatch_PermanentCalendarFailureNotRetried(t *testing.T) {
	d := newDeps()
	d.calendar.failures = []error{calendar.ErrRejected}

	report := d.service().Dispatch(context.Background(), fullTenant(), bookedAppointment(), claire())

	assert.Equal(t, domain.SyncFailed, report.Status(domain.SyncCalendar))
	assert.Equal(t, 1, d.calendar.calls)
	assert.Empty(t, d.appointments.eventIDs)

	// Остальные задачи выполняются независимо
	assert.True(t, report.Done(domain.SyncOwnerEmail))
	assert.True(t, report.Done(domain.SyncVisitorEmail))

	task := d.syncTasks.tasks[domain.SyncCalendar]
	require.NotNil(t, task.LastError)
	assert.Contains(t, *task.LastError, "rejected")
	assert.Equal(t, 1, d.metrics.observed["calendar/failed"])
}

func TestDispatch_CallTimeout(t *testing.T) {
	d := newDeps()
	d.calendar.block = true

	cfg := testConfig
	cfg.Calendar = RetryPolicy{Timeout: 10 * time.Millisecond, MaxTries: 2, InitialInterval: time.Millisecond}
	s := NewService(d.calendar, d.mailer, d.publisher, d.appointments, d.syncTasks, d.metrics, nil, cfg, logger.NewNop())

	report := s.Dispatch(context.Background(), fullTenant(), bookedAppointment(), claire())

	assert.Equal(t, domain.SyncFailed, report.Status(domain.SyncCalendar))
	assert.Equal(t, 2, d.calendar.calls)
}

func TestDispatch_MailFailureIsolated(t *testing.T) {
	d := newDeps()
	d.mailer.err = errors.New("smtp down")

	report := d.service().Dispatch(context.Background(), fullTenant(), bookedAppointment(), claire())

	assert.True(t, report.Done(domain.SyncCalendar))
	assert.Equal(t, domain.SyncFailed, report.Status(domain.SyncOwnerEmail))
	assert.Equal(t, domain.SyncFailed, report.Status(domain.SyncVisitorEmail))
	assert.True(t, report.Done(domain.SyncBookingEvent))
	assert.Len(t, report.Failed(), 2)
}

func TestDispatch_MailTimeoutNotResent(t *testing.T) {
	d := newDeps()
	d.mailer.err = fmt.Errorf("%w: %v", mailer.ErrTimeout, context.DeadlineExceeded)

	report := d.service().Dispatch(context.Background(), fullTenant(), bookedAppointment(), claire())

	assert.Equal(t, domain.SyncFailed, report.Status(domain.SyncOwnerEmail))
	assert.Equal(t, domain.SyncFailed, report.Status(domain.SyncVisitorEmail))
	// по одной попытке на письмо, хотя политика допускает две
	assert.Equal(t, 2, d.mailer.calls)
	for _, r := range report.Results {
		if r.Kind == domain.SyncOwnerEmail || r.Kind == domain.SyncVisitorEmail {
			assert.Equal(t, 1, r.Attempts)
		}
	}
}

func TestDispatch_DoneTasksNotRerun(t *testing.T) {
	d := newDeps()
	d.calendar.failures = []error{calendar.ErrRejected}
	s := d.service()
	appointment := bookedAppointment()

	first := s.Dispatch(context.Background(), fullTenant(), appointment, claire())
	require.Equal(t, domain.SyncFailed, first.Status(domain.SyncCalendar))
	require.Len(t, d.mailer.sent, 2)

	second := s.Dispatch(context.Background(), fullTenant(), appointment, claire())

	assert.True(t, second.Done(domain.SyncCalendar))
	assert.Equal(t, 2, d.calendar.calls)
	assert.Len(t, d.mailer.sent, 2, "e-mails are not sent twice")
	assert.Len(t, d.publisher.published, 1)
	assert.Equal(t, 2, d.syncTasks.tasks[domain.SyncCalendar].Attempts)
}

func TestDispatch_ExistingCalendarEvent(t *testing.T) {
	d := newDeps()
	appointment := bookedAppointment()
	appointment.CalendarEventID = ptr.Ptr("evt-0")

	report := d.service().Dispatch(context.Background(), fullTenant(), appointment, claire())

	assert.True(t, report.Done(domain.SyncCalendar))
	assert.Zero(t, d.calendar.calls)
}
