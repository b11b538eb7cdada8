package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// Service вычисляет свободные слоты владельца по расписанию и существующим записям
type Service struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
}

// NewService создает новый экземпляр сервиса доступности
func NewService(scheduleRepo ScheduleRepository, appointmentRepo AppointmentRepository, timeProvider TimeProvider) *Service {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Service{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    timeProvider,
	}
}

// ListSlots возвращает свободные слоты владельца на дату
// duration = 0 - длительность равна шагу окна, в котором находится слот.
// Дата должна быть в часовом поясе бизнеса.
func (s *Service) ListSlots(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time, duration int) (SlotSet, error) {
	if duration < 0 || duration > domain.MaxSlotMinutes {
		return SlotSet{}, fmt.Errorf("%w: %d", ErrInvalidDuration, duration)
	}

	cutoff, past := s.cutoff(date)
	if past {
		return SlotSet{}, nil
	}

	plan, busy, err := s.load(ctx, tenantID, owner, date)
	if err != nil {
		return SlotSet{}, err
	}

	return SlotSet{slots: BuildSlots(plan, busy, duration, cutoff)}, nil
}

// IsAvailable проверяет, свободен ли слот, начинающийся ровно в t
// Возвращает длительность записи, равную шагу окна, в котором лежит слот.
func (s *Service) IsAvailable(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time, t types.TimeString) (bool, int, error) {
	verdict, err := s.Check(ctx, tenantID, owner, date, t)
	if err != nil {
		return false, 0, err
	}
	if !verdict.Available() {
		return false, 0, nil
	}
	return true, verdict.DurationMinutes, nil
}

// Check проверяет слот и объясняет, почему он недоступен
// Время вне сетки окна недоступно, округления нет.
func (s *Service) Check(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time, t types.TimeString) (Verdict, error) {
	cutoff, past := s.cutoff(date)
	if past || (cutoff != noCutoff && t.Minutes() < cutoff) {
		return Verdict{Reason: ReasonPast}, nil
	}

	plan, busy, err := s.load(ctx, tenantID, owner, date)
	if err != nil {
		return Verdict{}, err
	}

	if !plan.IsOpen() {
		return Verdict{Reason: ReasonClosed}, nil
	}

	window, ok := plan.WindowAt(t)
	if !ok {
		return Verdict{Reason: ReasonOffGrid}, nil
	}

	if overlapsAny(domain.IntervalOf(t, window.SlotMinutes), busy) {
		return Verdict{Reason: ReasonTaken, DurationMinutes: window.SlotMinutes}, nil
	}

	return Verdict{Reason: ReasonFree, DurationMinutes: window.SlotMinutes}, nil
}

// DayPlan возвращает расписание владельца на дату
func (s *Service) DayPlan(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) (*domain.DayPlan, error) {
	plan, err := s.scheduleRepo.ResolveDayPlan(ctx, tenantID, owner, date)
	if err != nil {
		return nil, fmt.Errorf("%w: DayPlan - resolve plan: %v", ErrInternal, err)
	}
	return plan, nil
}

func (s *Service) load(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) (*domain.DayPlan, []domain.Interval, error) {
	plan, err := s.DayPlan(ctx, tenantID, owner, date)
	if err != nil {
		return nil, nil, err
	}
	if !plan.IsOpen() {
		return plan, nil, nil
	}

	appointments, err := s.appointmentRepo.ListActiveByOwnerAndDate(ctx, tenantID, owner, date)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: load - list appointments: %v", ErrInternal, err)
	}

	return plan, busyIntervals(appointments), nil
}

// cutoff возвращает минимальную минуту начала слота для сегодняшней даты
// past = true, если дата уже прошла
func (s *Service) cutoff(date time.Time) (int, bool) {
	now := s.timeProvider.Now().In(date.Location())
	today := domain.BusinessDate(now, date.Location())
	day := domain.BusinessDate(date, date.Location())

	switch {
	case day.Before(today):
		return noCutoff, true
	case day.After(today):
		return noCutoff, false
	}

	minutes := now.Hour()*60 + now.Minute()
	if now.Second() > 0 || now.Nanosecond() > 0 {
		minutes++
	}
	return minutes, false
}
