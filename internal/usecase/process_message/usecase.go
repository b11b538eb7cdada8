package process_message

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	tenantRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/availability"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/distributor"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/reservation"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/syncdispatch"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/validator"
	"github.com/m04kA/SMC-AssistantBooking/pkg/ptr"
)

// UseCase обработка ответа ассистента: блок бронирования превращается в запись
type UseCase struct {
	extractor    MarkerExtractor
	validator    RequestValidator
	tenantRepo   TenantRepository
	agentRepo    AgentRepository
	distributor  AgentDistributor
	availability AvailabilityChecker
	reservation  ReservationWriter
	sync         SyncDispatcher
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	extractor MarkerExtractor,
	validator RequestValidator,
	tenantRepo TenantRepository,
	agentRepo AgentRepository,
	distributor AgentDistributor,
	availability AvailabilityChecker,
	reservation ReservationWriter,
	sync SyncDispatcher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		extractor:    extractor,
		validator:    validator,
		tenantRepo:   tenantRepo,
		agentRepo:    agentRepo,
		distributor:  distributor,
		availability: availability,
		reservation:  reservation,
		sync:         sync,
		metrics:      metrics,
		logger:       logger,
	}
}

// attempt выбранный владелец слота для одной попытки бронирования
type attempt struct {
	owner    domain.OwnerRef
	agent    *domain.Agent
	method   domain.DistributionMethod
	rotation *reservation.Rotation
}

// Execute обрабатывает сообщение ассистента
//
// Порядок:
// 1. Вырезаем блок бронирования; без блока текст возвращается как есть
// 2. Проверяем заявку; при ошибках запись не создается
// 3. Загружаем тенанта; без агентов запись создается на уровне тенанта
// 4. Выбираем агента, проверяем слот и сохраняем запись
// 5. Если слот уже занят, распределение повторяется один раз (availability и round_robin)
// 6. Выполняем синхронизации; их ошибки не отменяют запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenant id must be positive", ErrInvalidInput)
	}

	visible, payload := uc.extractor.Extract(req.Text)
	if !payload.Found() {
		return &Response{Text: visible}, nil
	}

	uc.logger.Info("ProcessMessage: tenant=%d session=%s booking payload %s", req.TenantID, req.SessionRef, payload.Kind)

	outcome := uc.validator.Parse(payload.Raw)
	if outcome.Kind != validator.Valid {
		uc.logger.Warn("ProcessMessage: tenant=%d session=%s payload %s: %v",
			req.TenantID, req.SessionRef, outcome.Kind, outcome.Errors.Messages())
		uc.observe(StatusInvalid)
		return &Response{Text: visible, Booking: invalidResult(outcome)}, nil
	}
	booking := outcome.Request

	tenant, err := uc.loadTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	agentCount, err := uc.agentRepo.CountByTenant(ctx, tenant.ID)
	if err != nil {
		uc.logger.Error("ProcessMessage: failed to count agents for tenant=%d: %v", tenant.ID, err)
		return nil, fmt.Errorf("%w: count agents: %v", ErrInternal, err)
	}
	multiAgent := agentCount > 0

	result := baseResult(booking)
	var exclude []int64
	preferred := req.PreferredAgentID

	for retry := 0; ; retry++ {
		current := &attempt{owner: domain.TenantLevel(), method: domain.MethodSingleAgent}

		if multiAgent {
			selection, err := uc.distributor.SelectAgent(ctx, &distributor.Request{
				Tenant:           tenant,
				Booking:          booking,
				PreferredAgentID: preferred,
				Exclude:          exclude,
			})
			if err != nil {
				if errors.Is(err, distributor.ErrNoAgentAvailable) {
					uc.logger.Warn("ProcessMessage: tenant=%d no agent available on %s %s",
						tenant.ID, result.Date, result.Time)
					return uc.reject(visible, result, StatusNoAgent, noAgentMessage(booking)), nil
				}
				uc.logger.Error("ProcessMessage: failed to select agent for tenant=%d: %v", tenant.ID, err)
				return nil, fmt.Errorf("%w: select agent: %v", ErrInternal, err)
			}
			current = fromSelection(selection)
		}

		verdict, err := uc.availability.Check(ctx, tenant.ID, current.owner, booking.Date, booking.Time)
		if err != nil {
			uc.logger.Error("ProcessMessage: failed to check availability for %s: %v", current.owner, err)
			return nil, fmt.Errorf("%w: check availability: %v", ErrInternal, err)
		}

		var appointment *domain.Appointment
		switch {
		case verdict.Reason == availability.ReasonTaken:
			err = reservation.ErrSlotConflict
		case !verdict.Available():
			uc.logger.Warn("ProcessMessage: tenant=%d slot %s %s unavailable for %s: %s",
				tenant.ID, result.Date, result.Time, current.owner, verdict.Reason)
			return uc.reject(visible, result, StatusUnavailable, msgUnavailable), nil
		default:
			appointment, err = uc.reservation.Reserve(ctx, &reservation.Reservation{
				TenantID:        tenant.ID,
				Owner:           current.owner,
				SessionRef:      req.SessionRef,
				Request:         booking,
				DurationMinutes: verdict.DurationMinutes,
				Method:          current.method,
				Rotation:        current.rotation,
			})
		}

		if err != nil {
			if !errors.Is(err, reservation.ErrSlotConflict) {
				uc.logger.Error("ProcessMessage: failed to reserve slot for tenant=%d: %v", tenant.ID, err)
				return nil, fmt.Errorf("%w: reserve: %v", ErrInternal, err)
			}

			if retry > 0 || !multiAgent || !retryable(tenant.Policy.FallbackMode()) {
				uc.logger.Warn("ProcessMessage: tenant=%d slot %s %s taken for %s",
					tenant.ID, result.Date, result.Time, current.owner)
				return uc.reject(visible, result, StatusConflict, msgConflict), nil
			}

			uc.logger.Info("ProcessMessage: tenant=%d conflict for %s, retrying distribution", tenant.ID, current.owner)
			// Занятого агента исключаем; при сдвиге указателя round-robin достаточно перечитать тенанта
			if current.agent != nil && (verdict.Reason == availability.ReasonTaken || current.method != domain.MethodRoundRobin) {
				exclude = append(exclude, current.agent.ID)
			}
			// Выбор посетителя уже проиграл гонку, повтор идет по режиму тенанта
			preferred = nil
			// Указатель round-robin мог сдвинуться
			if tenant, err = uc.loadTenant(ctx, tenant.ID); err != nil {
				return nil, err
			}
			continue
		}

		uc.logger.Info("ProcessMessage: tenant=%d appointment=%d booked for %s (%s)",
			tenant.ID, appointment.ID, current.owner, current.method)

		report := uc.sync.Dispatch(ctx, tenant, appointment, current.agent)
		uc.observe(StatusBooked)

		return &Response{Text: visible, Booking: bookedResult(result, appointment, current.agent, report)}, nil
	}
}

func (uc *UseCase) loadTenant(ctx context.Context, id int64) (*domain.Tenant, error) {
	tenant, err := uc.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrTenantNotFound) {
			uc.logger.Warn("ProcessMessage: tenant=%d not found", id)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("ProcessMessage: failed to get tenant=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get tenant: %v", ErrInternal, err)
	}
	if !tenant.Active {
		uc.logger.Warn("ProcessMessage: tenant=%d is inactive", id)
		return nil, ErrTenantInactive
	}
	return tenant, nil
}

func (uc *UseCase) reject(visible string, result *BookingResult, status BookingStatus, message string) *Response {
	result.Status = status
	result.Errors = []string{message}
	uc.observe(status)
	return &Response{Text: visible, Booking: result}
}

func (uc *UseCase) observe(status BookingStatus) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ObserveBookingOutcome(string(status))
}

// retryable повтор распределения допускают только режимы availability и round_robin
func retryable(mode domain.DistributionMode) bool {
	return mode == domain.ModeAvailability || mode == domain.ModeRoundRobin
}

func fromSelection(selection *distributor.Selection) *attempt {
	a := &attempt{
		owner:  selection.Agent.Owner(),
		agent:  selection.Agent,
		method: selection.Method,
	}
	if selection.Rotation != nil {
		a.rotation = &reservation.Rotation{Expected: selection.Rotation.Expected, Next: selection.Rotation.Next}
	}
	return a
}

func noAgentMessage(booking *domain.BookingRequest) string {
	if service := booking.ServiceName(); service != "" {
		return fmt.Sprintf(msgNoAgentFor, service)
	}
	return msgNoAgent
}

func invalidResult(outcome validator.Outcome) *BookingResult {
	return &BookingResult{
		Status:  StatusInvalid,
		Name:    outcome.Echo.Name,
		Date:    outcome.Echo.Date,
		Time:    outcome.Echo.Time,
		Service: outcome.Echo.Service,
		Errors:  outcome.Errors.Messages(),
	}
}

func baseResult(booking *domain.BookingRequest) *BookingResult {
	return &BookingResult{
		Name:    booking.Name,
		Date:    booking.Date.Format(domain.VisitorDateFormat),
		Time:    booking.Time.HourMark(),
		Service: booking.ServiceName(),
	}
}

func bookedResult(result *BookingResult, appointment *domain.Appointment, agent *domain.Agent, report *syncdispatch.Report) *BookingResult {
	result.Status = StatusBooked
	result.Success = true
	result.AppointmentID = ptr.Ptr(appointment.ID)
	if agent != nil {
		result.AgentID = ptr.Ptr(agent.ID)
		result.AgentName = agent.Name
	}

	result.CalendarSynced = report.Done(domain.SyncCalendar)
	result.OwnerNotified = report.Done(domain.SyncOwnerEmail)
	result.VisitorNotified = report.Done(domain.SyncVisitorEmail)

	warnings := make([]string, 0)
	for _, failed := range report.Failed() {
		switch failed.Kind {
		case domain.SyncCalendar:
			warnings = append(warnings, msgCalendarSync)
		case domain.SyncOwnerEmail:
			warnings = append(warnings, msgOwnerNotify)
		case domain.SyncVisitorEmail:
			warnings = append(warnings, msgVisitorNotify)
		}
	}
	if len(warnings) > 0 {
		result.Warnings = warnings
	}

	return result
}
