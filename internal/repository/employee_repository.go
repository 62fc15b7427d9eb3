package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vyservice/ops-api/internal/models"
)

const employeeColumns = `id, username, password_hash, is_approved, allowed_cards, can_remove_repairs, created_at, updated_at`

// EmployeeRepository handles persistence for staff accounts.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee account.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	query := `INSERT INTO employees (id, username, password_hash, is_approved, allowed_cards, can_remove_repairs, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		employee.ID, employee.Username, employee.PasswordHash, employee.IsApproved,
		employee.AllowedCards, employee.CanRemoveRepairs, employee.CreatedAt, employee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// FindByID loads one account.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1`, employeeColumns)
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUsername loads one account by its unique username.
func (r *EmployeeRepository) FindByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE username = $1`, employeeColumns)
	if err := r.db.GetContext(ctx, &employee, query, username); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ExistsByUsername reports whether another account already holds the
// username.
func (r *EmployeeRepository) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM employees WHERE username = $1 AND ($2 = '' OR id <> $2)`
	if err := r.db.GetContext(ctx, &count, query, username, excludeID); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}

// List returns every account newest-first.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees ORDER BY created_at DESC`, employeeColumns)
	rows := []models.Employee{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return rows, nil
}

// UpdateCredentials changes username and/or password hash.
func (r *EmployeeRepository) UpdateCredentials(ctx context.Context, id, username, passwordHash string) (*models.Employee, error) {
	query := `UPDATE employees SET
        username = COALESCE(NULLIF($2, ''), username),
        password_hash = COALESCE(NULLIF($3, ''), password_hash),
        updated_at = $4
WHERE id = $1
RETURNING ` + employeeColumns
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id, username, passwordHash, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Approve marks the account usable.
func (r *EmployeeRepository) Approve(ctx context.Context, id string) (*models.Employee, error) {
	query := `UPDATE employees SET is_approved = TRUE, updated_at = $2 WHERE id = $1 RETURNING ` + employeeColumns
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &employee, nil
}

// UpdatePermissions replaces the capability set and removal flag.
func (r *EmployeeRepository) UpdatePermissions(ctx context.Context, id string, cards pq.StringArray, canRemoveRepairs bool) (*models.Employee, error) {
	query := `UPDATE employees SET allowed_cards = $2, can_remove_repairs = $3, updated_at = $4 WHERE id = $1 RETURNING ` + employeeColumns
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id, cards, canRemoveRepairs, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Delete removes the account, reporting whether a row was deleted.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete employee rows: %w", err)
	}
	return affected > 0, nil
}
