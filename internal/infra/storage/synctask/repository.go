package synctask

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/psqlbuilder"
)

// Repository репозиторий состояний задач синхронизации
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория задач синхронизации
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByAppointment получает состояния всех задач записи
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.SyncTask, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"appointment_id",
		"kind",
		"status",
		"attempts",
		"last_error",
		"updated_at",
	).
		From("appointment_sync_tasks").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("kind ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tasks := make([]*domain.SyncTask, 0)
	for rows.Next() {
		var task domain.SyncTask
		if err := rows.Scan(&task.AppointmentID, &task.Kind, &task.Status, &task.Attempts, &task.LastError, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return tasks, nil
}

// Upsert сохраняет результат выполнения задачи
// Количество попыток накапливается между повторными запусками
func (r *Repository) Upsert(ctx context.Context, task *domain.SyncTask) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_sync_tasks").
		Columns("appointment_id", "kind", "status", "attempts", "last_error").
		Values(task.AppointmentID, string(task.Kind), string(task.Status), task.Attempts, task.LastError).
		Suffix(`ON CONFLICT (appointment_id, kind) DO UPDATE SET
			status = EXCLUDED.status,
			attempts = appointment_sync_tasks.attempts + EXCLUDED.attempts,
			last_error = EXCLUDED.last_error,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
