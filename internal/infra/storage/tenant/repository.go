package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/psqlbuilder"
)

// Repository репозиторий тенантов
// Тенанты создаются административной частью, здесь только чтение и сдвиг указателя
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория тенантов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тенанта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"active",
		"distribution_mode",
		"allow_visitor_choice",
		"calendar_id",
		"notification_email",
		"rr_cursor",
		"created_at",
		"updated_at",
	).
		From("tenants").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var tenant domain.Tenant
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Active,
		&tenant.Policy.Mode,
		&tenant.Policy.AllowVisitorChoice,
		&tenant.CalendarID,
		&tenant.NotificationEmail,
		&tenant.RoundRobinCursor,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tenant: %v", ErrScanRow, err)
	}

	tenant.CreatedAt = createdAt.Time
	tenant.UpdatedAt = updatedAt.Time

	return &tenant, nil
}

// AdvanceCursor сдвигает указатель round-robin с expected на next (compare-and-swap)
// Должен вызываться в той же транзакции, что и вставка записи.
// Если указатель уже сдвинут другим запросом, возвращает ErrCursorMoved.
func (r *Repository) AdvanceCursor(ctx context.Context, tenantID, expected, next int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := advanceCursorQuery(tenantID, expected, next).ToSql()
	if err != nil {
		return fmt.Errorf("%w: AdvanceCursor - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AdvanceCursor - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AdvanceCursor - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrCursorMoved
	}

	return nil
}

// advanceCursorQuery обновление указателя, только если он все еще равен expected
func advanceCursorQuery(tenantID, expected, next int64) squirrel.UpdateBuilder {
	return psqlbuilder.Update("tenants").
		Set("rr_cursor", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": tenantID}).
		Where(squirrel.Eq{"rr_cursor": expected})
}
