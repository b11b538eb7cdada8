package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/psqlbuilder"
)

// Repository репозиторий расписаний: недельные правила и исключения по датам
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ResolveDayPlan получает расписание владельца на дату с учетом иерархии приоритетов
// Приоритет (побеждает первый найденный уровень):
// 1. Исключение агента на дату
// 2. Исключение тенанта на дату
// 3. Недельные окна агента
// 4. Недельные окна тенанта
//
// Закрытое исключение дает закрытый день, даже если недельное правило существует.
// Если ни один уровень не найден, возвращается план с источником PlanSourceNone и без окон.
func (r *Repository) ResolveDayPlan(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) (*domain.DayPlan, error) {
	tenantLevel := domain.TenantLevel()

	// 1. Исключение агента
	if !owner.IsTenantLevel() {
		exceptions, err := r.GetExceptions(ctx, tenantID, owner, date)
		if err != nil {
			return nil, fmt.Errorf("%w: ResolveDayPlan - level 1 (agent exception): %v", ErrExecQuery, err)
		}
		if len(exceptions) > 0 {
			return planFromExceptions(domain.PlanSourceAgentException, exceptions), nil
		}
	}

	// 2. Исключение тенанта
	exceptions, err := r.GetExceptions(ctx, tenantID, tenantLevel, date)
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveDayPlan - level 2 (tenant exception): %v", ErrExecQuery, err)
	}
	if len(exceptions) > 0 {
		return planFromExceptions(domain.PlanSourceTenantException, exceptions), nil
	}

	// 3. Недельные окна агента
	if !owner.IsTenantLevel() {
		hours, err := r.GetWorkingHours(ctx, tenantID, owner, date.Weekday())
		if err != nil {
			return nil, fmt.Errorf("%w: ResolveDayPlan - level 3 (agent weekly): %v", ErrExecQuery, err)
		}
		if len(hours) > 0 {
			return planFromWorkingHours(domain.PlanSourceAgentWeekly, hours), nil
		}
	}

	// 4. Недельные окна тенанта
	hours, err := r.GetWorkingHours(ctx, tenantID, tenantLevel, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("%w: ResolveDayPlan - level 4 (tenant weekly): %v", ErrExecQuery, err)
	}
	if len(hours) > 0 {
		return planFromWorkingHours(domain.PlanSourceTenantWeekly, hours), nil
	}

	return &domain.DayPlan{Source: domain.PlanSourceNone}, nil
}

// GetWorkingHours получает недельные окна владельца на день недели
func (r *Repository) GetWorkingHours(ctx context.Context, tenantID int64, owner domain.OwnerRef, weekday time.Weekday) ([]*domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"agent_id",
		"weekday",
		"start_time",
		"end_time",
		"slot_minutes",
	).
		From("working_hours").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"agent_id": owner.Nullable()}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WorkingHours, 0)
	for rows.Next() {
		wh := domain.WorkingHours{TenantID: tenantID}
		var agentID *int64
		var day int
		if err := rows.Scan(&wh.ID, &agentID, &day, &wh.StartTime, &wh.EndTime, &wh.SlotMinutes); err != nil {
			return nil, fmt.Errorf("%w: GetWorkingHours - scan row: %v", ErrScanRow, err)
		}
		wh.Owner = domain.OwnerFromNullable(agentID)
		wh.Weekday = time.Weekday(day)
		result = append(result, &wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetExceptions получает исключения владельца на дату
// На одну дату может быть несколько исключений с особыми часами (несколько окон)
func (r *Repository) GetExceptions(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) ([]*domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"agent_id",
		"closed",
		"start_time",
		"end_time",
		"slot_minutes",
	).
		From("schedule_exceptions").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"agent_id": owner.Nullable()}).
		Where(squirrel.Eq{"exception_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ScheduleException, 0)
	for rows.Next() {
		ex := domain.ScheduleException{TenantID: tenantID, Date: date}
		var agentID *int64
		if err := rows.Scan(&ex.ID, &agentID, &ex.Closed, &ex.StartTime, &ex.EndTime, &ex.SlotMinutes); err != nil {
			return nil, fmt.Errorf("%w: GetExceptions - scan row: %v", ErrScanRow, err)
		}
		ex.Owner = domain.OwnerFromNullable(agentID)
		result = append(result, &ex)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptions - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// planFromExceptions строит план дня из исключений
// Любое закрытое исключение закрывает весь день
func planFromExceptions(source domain.PlanSource, exceptions []*domain.ScheduleException) *domain.DayPlan {
	plan := &domain.DayPlan{Source: source}
	for _, ex := range exceptions {
		if ex.Closed {
			return &domain.DayPlan{Source: source, Closed: true}
		}
		if ex.StartTime == nil || ex.EndTime == nil {
			continue
		}
		slotMinutes := domain.DefaultSlotMinutes
		if ex.SlotMinutes != nil && *ex.SlotMinutes > 0 {
			slotMinutes = *ex.SlotMinutes
		}
		plan.Windows = append(plan.Windows, domain.Window{
			Start:       *ex.StartTime,
			End:         *ex.EndTime,
			SlotMinutes: slotMinutes,
		})
	}
	return plan
}

func planFromWorkingHours(source domain.PlanSource, hours []*domain.WorkingHours) *domain.DayPlan {
	plan := &domain.DayPlan{Source: source, Windows: make([]domain.Window, 0, len(hours))}
	for _, wh := range hours {
		slotMinutes := wh.SlotMinutes
		if slotMinutes <= 0 {
			slotMinutes = domain.DefaultSlotMinutes
		}
		plan.Windows = append(plan.Windows, domain.Window{
			Start:       wh.StartTime,
			End:         wh.EndTime,
			SlotMinutes: slotMinutes,
		})
	}
	return plan
}
