package agent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/psqlbuilder"
)

var agentColumns = []string{
	"id",
	"tenant_id",
	"name",
	"email",
	"phone",
	"specialties",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий агентов тенанта
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория агентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает агента тенанта по ID
// Агент другого тенанта считается ненайденным
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Agent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(agentColumns...).
		From("agents").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	agent, err := scanAgent(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan agent: %v", ErrScanRow, err)
	}

	return agent, nil
}

// ListByTenant получает агентов тенанта в порядке возрастания ID
// Если activeOnly = false, возвращаются и деактивированные агенты
func (r *Repository) ListByTenant(ctx context.Context, tenantID int64, activeOnly bool) ([]*domain.Agent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(agentColumns...).
		From("agents").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	agents := make([]*domain.Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByTenant - scan row: %v", ErrScanRow, err)
		}
		agents = append(agents, agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByTenant - rows error: %v", ErrScanRow, err)
	}

	return agents, nil
}

// CountByTenant возвращает количество агентов тенанта, включая неактивных
// Тенант без агентов работает как одиночный специалист
func (r *Repository) CountByTenant(ctx context.Context, tenantID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("agents").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByTenant - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByTenant - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgent(row rowScanner) (*domain.Agent, error) {
	var agent domain.Agent
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&agent.ID,
		&agent.TenantID,
		&agent.Name,
		&agent.Email,
		&agent.Phone,
		pq.Array(&agent.Specialties),
		&agent.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	agent.CreatedAt = createdAt.Time
	agent.UpdatedAt = updatedAt.Time

	return &agent, nil
}
