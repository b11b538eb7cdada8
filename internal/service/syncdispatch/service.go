package syncdispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/calendar"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/mailer"
	"github.com/m04kA/SMC-AssistantBooking/pkg/ptr"
)

// Service выполняет внешние синхронизации созданной записи
// Ошибки синхронизации не откатывают бронирование и попадают только в отчет.
type Service struct {
	calendar        CalendarClient
	mailer          Mailer
	publisher       EventPublisher
	appointmentRepo AppointmentRepository
	syncTaskRepo    SyncTaskRepository
	metrics         Metrics
	timeProvider    TimeProvider
	config          Config
	logger          Logger
}

// NewService создает новый экземпляр диспетчера
// calendar, mailer и publisher могут быть nil, тогда соответствующие задачи пропускаются.
func NewService(
	calendar CalendarClient,
	mailer Mailer,
	publisher EventPublisher,
	appointmentRepo AppointmentRepository,
	syncTaskRepo SyncTaskRepository,
	metrics Metrics,
	timeProvider TimeProvider,
	config Config,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		calendar:        calendar,
		mailer:          mailer,
		publisher:       publisher,
		appointmentRepo: appointmentRepo,
		syncTaskRepo:    syncTaskRepo,
		metrics:         metrics,
		timeProvider:    timeProvider,
		config:          config,
		logger:          logger,
	}
}

// Dispatch выполняет все задачи синхронизации записи по порядку
// Задача, уже завершенная успешно, повторно не выполняется.
func (s *Service) Dispatch(ctx context.Context, tenant *domain.Tenant, appointment *domain.Appointment, agent *domain.Agent) *Report {
	previous := s.previousTasks(ctx, appointment.ID)

	report := &Report{Results: make([]Result, 0, len(domain.AllSyncTaskKinds))}
	for _, kind := range domain.AllSyncTaskKinds {
		if prev, ok := previous[kind]; ok && prev.IsDone() {
			report.Results = append(report.Results, Result{Kind: kind, Status: domain.SyncDone})
			continue
		}

		result := s.runTask(ctx, kind, tenant, appointment, agent)
		s.persist(ctx, appointment.ID, result)
		s.observe(result)

		report.Results = append(report.Results, result)
	}

	return report
}

func (s *Service) runTask(ctx context.Context, kind domain.SyncTaskKind, tenant *domain.Tenant, appointment *domain.Appointment, agent *domain.Agent) Result {
	var (
		op     func(ctx context.Context) error
		policy RetryPolicy
	)

	switch kind {
	case domain.SyncCalendar:
		if appointment.HasCalendarEvent() {
			return Result{Kind: kind, Status: domain.SyncDone}
		}
		if s.calendar == nil || !tenant.HasCalendar() {
			return Result{Kind: kind, Status: domain.SyncSkipped}
		}
		op = func(ctx context.Context) error { return s.syncCalendar(ctx, tenant, appointment) }
		policy = s.config.Calendar

	case domain.SyncOwnerEmail:
		msg, err := ownerMessage(tenant, appointment, agent)
		if s.mailer == nil || errors.Is(err, ErrNoRecipient) {
			return Result{Kind: kind, Status: domain.SyncSkipped}
		}
		if err != nil {
			return Result{Kind: kind, Status: domain.SyncFailed, Error: err.Error()}
		}
		op = func(ctx context.Context) error { return s.mailer.Send(ctx, msg) }
		policy = s.config.Email

	case domain.SyncVisitorEmail:
		msg, err := visitorMessage(tenant, appointment, agent)
		if s.mailer == nil || errors.Is(err, ErrNoRecipient) {
			return Result{Kind: kind, Status: domain.SyncSkipped}
		}
		if err != nil {
			return Result{Kind: kind, Status: domain.SyncFailed, Error: err.Error()}
		}
		op = func(ctx context.Context) error { return s.mailer.Send(ctx, msg) }
		policy = s.config.Email

	case domain.SyncBookingEvent:
		if s.publisher == nil {
			return Result{Kind: kind, Status: domain.SyncSkipped}
		}
		env := eventbus.NewAppointmentBooked(ctx, appointment, s.timeProvider.Now())
		op = func(ctx context.Context) error { return s.publisher.Publish(ctx, env) }
		policy = s.config.Events

	default:
		return Result{Kind: kind, Status: domain.SyncSkipped}
	}

	attempts, err := s.retry(ctx, kind, policy, op)
	if err != nil {
		s.logger.Warn("Dispatch: appointment=%d task=%s failed after %d attempt(s): %v", appointment.ID, kind, attempts, err)
		return Result{Kind: kind, Status: domain.SyncFailed, Attempts: attempts, Error: err.Error()}
	}

	s.logger.Info("Dispatch: appointment=%d task=%s done in %d attempt(s)", appointment.ID, kind, attempts)
	return Result{Kind: kind, Status: domain.SyncDone, Attempts: attempts}
}

// retry выполняет операцию с экспоненциальной задержкой между попытками
// Каждая попытка ограничена своим таймаутом, постоянные ошибки не повторяются.
func (s *Service) retry(ctx context.Context, kind domain.SyncTaskKind, policy RetryPolicy, op func(ctx context.Context) error) (int, error) {
	b := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		b.InitialInterval = policy.InitialInterval
	}
	maxTries := policy.MaxTries
	if maxTries == 0 {
		maxTries = 1
	}

	attempts := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempts++

		callCtx := ctx
		if policy.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, policy.Timeout)
			defer cancel()
		}

		if err := op(callCtx); err != nil {
			if isPermanent(err) {
				return struct{}{}, backoff.Permanent(err)
			}
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.Info("Dispatch: task=%s retry in %s: %v", kind, next, err)
		}),
	)

	return attempts, err
}

func (s *Service) syncCalendar(ctx context.Context, tenant *domain.Tenant, appointment *domain.Appointment) error {
	eventID, err := s.calendar.CreateEvent(ctx, calendarEvent(tenant, appointment))
	if err != nil {
		return err
	}

	// Повторная попытка с тем же ключом идемпотентности вернет то же событие
	if err := s.appointmentRepo.SetCalendarEventID(ctx, appointment.ID, eventID); err != nil {
		return fmt.Errorf("store calendar event id: %w", err)
	}
	appointment.CalendarEventID = &eventID

	return nil
}

func (s *Service) previousTasks(ctx context.Context, appointmentID int64) map[domain.SyncTaskKind]*domain.SyncTask {
	result := make(map[domain.SyncTaskKind]*domain.SyncTask)

	tasks, err := s.syncTaskRepo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		s.logger.Error("Dispatch: appointment=%d failed to load sync tasks: %v", appointmentID, err)
		return result
	}
	for _, t := range tasks {
		result[t.Kind] = t
	}
	return result
}

func (s *Service) persist(ctx context.Context, appointmentID int64, result Result) {
	task := &domain.SyncTask{
		AppointmentID: appointmentID,
		Kind:          result.Kind,
		Status:        result.Status,
		Attempts:      result.Attempts,
	}
	if result.Error != "" {
		task.LastError = &result.Error
	}

	if err := s.syncTaskRepo.Upsert(ctx, task); err != nil {
		s.logger.Error("Dispatch: appointment=%d failed to store task %s: %v", appointmentID, result.Kind, err)
	}
}

func (s *Service) observe(result Result) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSyncTask(string(result.Kind), string(result.Status))
}

// После таймаута SMTP письмо могло уйти, повтор дал бы дубликат
func isPermanent(err error) bool {
	return errors.Is(err, calendar.ErrRejected) ||
		errors.Is(err, calendar.ErrInvalidResponse) ||
		errors.Is(err, mailer.ErrInvalidMessage) ||
		errors.Is(err, mailer.ErrTimeout) ||
		errors.Is(err, eventbus.ErrClosed)
}

func calendarEvent(tenant *domain.Tenant, a *domain.Appointment) *calendar.Event {
	title := "RDV " + a.VisitorName
	if a.Service != nil && *a.Service != "" {
		title += " - " + *a.Service
	}

	details := make([]string, 0, 2)
	if a.VisitorPhone != nil {
		details = append(details, "Téléphone : "+*a.VisitorPhone)
	}
	if a.VisitorEmail != nil {
		details = append(details, "E-mail : "+*a.VisitorEmail)
	}

	event := &calendar.Event{
		CalendarID:    *tenant.CalendarID,
		AppointmentID: a.ID,
		Title:         title,
		Description:   strings.Join(details, "\n"),
		Start:         a.StartsAt(),
		End:           a.EndsAt(),
		Attendee: calendar.Attendee{
			Name:  a.VisitorName,
			Email: ptr.Deref(a.VisitorEmail, ""),
			Phone: ptr.Deref(a.VisitorPhone, ""),
		},
		Service: ptr.Deref(a.Service, ""),
	}
	return event
}

func summary(tenant *domain.Tenant, a *domain.Appointment, agent *domain.Agent) mailer.Summary {
	s := mailer.Summary{
		AppointmentID:   a.ID,
		BusinessName:    tenant.Name,
		VisitorName:     a.VisitorName,
		VisitorPhone:    ptr.Deref(a.VisitorPhone, ""),
		VisitorEmail:    ptr.Deref(a.VisitorEmail, ""),
		Date:            a.Date.Format(domain.VisitorDateFormat),
		Time:            a.StartTime.HourMark(),
		DurationMinutes: a.DurationMinutes,
		Service:         ptr.Deref(a.Service, ""),
	}
	if agent != nil {
		s.AgentName = agent.Name
	}
	return s
}

// ownerMessage письмо владельцу; агент получает копию
// Если у тенанта нет адреса, письмо уходит только агенту.
func ownerMessage(tenant *domain.Tenant, a *domain.Appointment, agent *domain.Agent) (*mailer.Message, error) {
	to := ""
	if tenant.HasNotificationEmail() {
		to = *tenant.NotificationEmail
	}

	var cc []string
	if agent != nil && agent.Email != nil && *agent.Email != "" {
		if to == "" {
			to = *agent.Email
		} else if !strings.EqualFold(to, *agent.Email) {
			cc = append(cc, *agent.Email)
		}
	}

	if to == "" {
		return nil, ErrNoRecipient
	}

	return mailer.RenderOwnerSummary(to, cc, summary(tenant, a, agent))
}

func visitorMessage(tenant *domain.Tenant, a *domain.Appointment, agent *domain.Agent) (*mailer.Message, error) {
	if a.VisitorEmail == nil || *a.VisitorEmail == "" {
		return nil, ErrNoRecipient
	}
	return mailer.RenderVisitorConfirmation(*a.VisitorEmail, summary(tenant, a, agent))
}
