package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var appointmentColumns = []string{
	"id",
	"tenant_id",
	"agent_id",
	"session_ref",
	"visitor_name",
	"visitor_phone",
	"visitor_email",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"service",
	"status",
	"distribution_method",
	"calendar_event_id",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория записей
// loc - часовой пояс бизнеса, в котором интерпретируются колонки DATE
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Reserve атомарно создает запись, если слот владельца свободен
// Конфликт определяется частичным уникальным индексом uq_appointments_active_slot:
// INSERT ... ON CONFLICT DO NOTHING не возвращает строку, и метод отдает ErrSlotTaken.
// Блокировок в памяти процесса нет, поэтому метод безопасен для нескольких экземпляров сервиса.
func (r *Repository) Reserve(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := reserveQuery(appointment).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
		return nil, ErrSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// reserveQuery вставка записи; при занятом слоте строка не возвращается
func reserveQuery(appointment *domain.Appointment) squirrel.InsertBuilder {
	return psqlbuilder.Insert("appointments").
		Columns(
			"tenant_id",
			"agent_id",
			"session_ref",
			"visitor_name",
			"visitor_phone",
			"visitor_email",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"service",
			"status",
			"distribution_method",
		).
		Values(
			appointment.TenantID,
			appointment.Owner.Nullable(),
			appointment.SessionRef,
			appointment.VisitorName,
			appointment.VisitorPhone,
			appointment.VisitorEmail,
			appointment.Date.Format(domain.DateFormat),
			appointment.StartTime,
			appointment.DurationMinutes,
			appointment.Service,
			appointment.Status,
			appointment.DistributionMethod,
		).
		Suffix("ON CONFLICT DO NOTHING RETURNING id, created_at, updated_at")
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// ListActiveByOwnerAndDate получает активные записи владельца на дату
// Используется для расчета свободных слотов
func (r *Repository) ListActiveByOwnerAndDate(ctx context.Context, tenantID int64, owner domain.OwnerRef, date time.Time) ([]*domain.Appointment, error) {
	filter := domain.AppointmentsFilter{
		TenantID:  tenantID,
		Owner:     &owner,
		StartDate: &date,
		EndDate:   &date,
	}

	appointments, err := r.GetByTenantWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ListActiveByOwnerAndDate: %w", err)
	}

	return appointments, nil
}

// GetByTenantWithFilter получает записи тенанта с фильтрацией
//
// Примеры использования:
//
// 1. Все активные записи тенанта:
//    filter := domain.AppointmentsFilter{TenantID: 12}
//
// 2. Записи агента на конкретную дату:
//    owner := domain.AgentOwner(7)
//    filter := domain.AppointmentsFilter{TenantID: 12, Owner: &owner, StartDate: &date, EndDate: &date}
//
// 3. Все записи включая отмененные:
//    filter := domain.AppointmentsFilter{TenantID: 12, IncludeInactive: true}
func (r *Repository) GetByTenantWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	// Владелец: NULL для уровня тенанта или конкретный агент
	if filter.Owner != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"agent_id": filter.Owner.Nullable()})
	}

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": filter.EndDate.Format(domain.DateFormat)})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	if filter.StartDate != nil && filter.EndDate != nil && domain.SameDate(*filter.StartDate, *filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetBySessionRef получает записи, созданные в рамках одного разговора
func (r *Repository) GetBySessionRef(ctx context.Context, sessionRef string) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"session_ref": sessionRef}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySessionRef - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySessionRef - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// LastAssignedAt возвращает время последней активной записи для каждого агента
// Агенты без записей в результат не попадают
func (r *Repository) LastAssignedAt(ctx context.Context, tenantID int64, agentIDs []int64) (map[int64]time.Time, error) {
	result := make(map[int64]time.Time, len(agentIDs))
	if len(agentIDs) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("agent_id", "MAX(created_at)").
		From("appointments").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Eq{"agent_id": agentIDs}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		GroupBy("agent_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: LastAssignedAt - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LastAssignedAt - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var agentID int64
		var lastAt time.Time
		if err := rows.Scan(&agentID, &lastAt); err != nil {
			return nil, fmt.Errorf("%w: LastAssignedAt - scan row: %v", ErrScanRow, err)
		}
		result[agentID] = lastAt
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LastAssignedAt - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// SetCalendarEventID сохраняет идентификатор события календаря
// Уже сохраненный идентификатор не перезаписывается
func (r *Repository) SetCalendarEventID(ctx context.Context, id int64, eventID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("calendar_event_id", eventID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"calendar_event_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCalendarEventID - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetCalendarEventID - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет запись с указанием причины и освобождает слот
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var agentID sql.NullInt64
	var date time.Time
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.TenantID,
		&agentID,
		&appointment.SessionRef,
		&appointment.VisitorName,
		&appointment.VisitorPhone,
		&appointment.VisitorEmail,
		&date,
		&appointment.StartTime,
		&appointment.DurationMinutes,
		&appointment.Service,
		&appointment.Status,
		&appointment.DistributionMethod,
		&appointment.CalendarEventID,
		&appointment.CancellationReason,
		&appointment.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if agentID.Valid {
		appointment.Owner = domain.AgentOwner(agentID.Int64)
	}
	appointment.Date = domain.BusinessDate(date, r.loc)
	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
