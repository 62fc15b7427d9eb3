package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vyservice/ops-api/internal/models"
)

// AttendanceRepository handles persistence for attendance records. The
// UNIQUE (employee_id, date) constraint makes Insert idempotent per
// calendar day.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Insert persists the record unless one already exists for the
// (employee, date) key. The tagged return keeps the idempotency
// contract explicit: (record, true) on insert, (nil, false) when the
// day was already marked. Races between concurrent marks resolve here;
// callers never see a duplicate-key error.
func (r *AttendanceRepository) Insert(ctx context.Context, record *models.Attendance) (*models.Attendance, bool, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.Timestamp.IsZero() {
		record.Timestamp = now
	}
	record.CreatedAt = now

	query := `INSERT INTO attendance (id, employee_id, employee_name, date, ip_address, lat, lng, accuracy, timestamp, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (employee_id, date) DO NOTHING
RETURNING id, employee_id, employee_name, date, ip_address, lat, lng, accuracy, timestamp, created_at`

	var stored models.Attendance
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.EmployeeID, record.EmployeeName, record.Date,
		record.IPAddress, record.Lat, record.Lng, record.Accuracy,
		record.Timestamp, record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("insert attendance: %w", err)
	}
	return &stored, true, nil
}

// Upsert creates or refreshes the record for the (employee, date) key,
// replacing name and timestamp. Used only by the admin override.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.Timestamp = now
	record.CreatedAt = now

	query := `INSERT INTO attendance (id, employee_id, employee_name, date, ip_address, lat, lng, accuracy, timestamp, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (employee_id, date)
DO UPDATE SET employee_name = EXCLUDED.employee_name, timestamp = EXCLUDED.timestamp
RETURNING id, employee_id, employee_name, date, ip_address, lat, lng, accuracy, timestamp, created_at`

	var stored models.Attendance
	err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.EmployeeID, record.EmployeeName, record.Date,
		record.IPAddress, record.Lat, record.Lng, record.Accuracy,
		record.Timestamp, record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// DeleteByKey removes the record for the (employee, date) key, reporting
// whether anything was deleted.
func (r *AttendanceRepository) DeleteByKey(ctx context.Context, employeeID, date string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE employee_id = $1 AND date = $2`, employeeID, date)
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance rows: %w", err)
	}
	return affected > 0, nil
}

// MonthDays returns the ordered day strings with a record for the
// employee within the YYYY-MM month.
func (r *AttendanceRepository) MonthDays(ctx context.Context, employeeID, month string) ([]string, error) {
	query := `SELECT date FROM attendance WHERE employee_id = $1 AND date LIKE $2 || '-%' ORDER BY date`
	days := []string{}
	if err := r.db.SelectContext(ctx, &days, query, employeeID, month); err != nil {
		return nil, fmt.Errorf("month attendance: %w", err)
	}
	return days, nil
}

// PresentEmployeeIDs returns the distinct employees with a record on the
// given date.
func (r *AttendanceRepository) PresentEmployeeIDs(ctx context.Context, date string) ([]string, error) {
	query := `SELECT DISTINCT employee_id FROM attendance WHERE date = $1 ORDER BY employee_id`
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, date); err != nil {
		return nil, fmt.Errorf("present employees: %w", err)
	}
	return ids, nil
}

// MonthRecords returns full records for every employee within the
// YYYY-MM month, ordered by date then employee. Feeds the CSV export.
func (r *AttendanceRepository) MonthRecords(ctx context.Context, month string) ([]models.Attendance, error) {
	query := `SELECT id, employee_id, employee_name, date, ip_address, lat, lng, accuracy, timestamp, created_at
FROM attendance WHERE date LIKE $1 || '-%' ORDER BY date, employee_id`
	rows := []models.Attendance{}
	if err := r.db.SelectContext(ctx, &rows, query, month); err != nil {
		return nil, fmt.Errorf("month attendance records: %w", err)
	}
	return rows, nil
}
