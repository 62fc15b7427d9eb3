package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vyservice/ops-api/internal/models"
)

const repairColumns = `id, unique_id, customer_name, phone_number, type, brand, adapter_given, problem,
        status, remark, expected_amount, amount, created_by, created_at, delivered_at, updated_at`

// RepairRepository handles persistence for repair tickets. unique_id is
// deliberately not unique; repeat visits create new rows that share it.
type RepairRepository struct {
	db *sqlx.DB
}

// NewRepairRepository constructs the repository.
func NewRepairRepository(db *sqlx.DB) *RepairRepository {
	return &RepairRepository{db: db}
}

// Create inserts a new ticket.
func (r *RepairRepository) Create(ctx context.Context, repair *models.Repair) error {
	if repair.ID == "" {
		repair.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if repair.CreatedAt.IsZero() {
		repair.CreatedAt = now
	}
	repair.UpdatedAt = now

	query := `INSERT INTO repairs (id, unique_id, customer_name, phone_number, type, brand, adapter_given, problem,
        status, remark, expected_amount, amount, created_by, created_at, delivered_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		repair.ID, repair.UniqueID, repair.CustomerName, repair.PhoneNumber,
		repair.Type, repair.Brand, repair.AdapterGiven, repair.Problem,
		repair.Status, repair.Remark, repair.ExpectedAmount, repair.Amount,
		repair.CreatedBy, repair.CreatedAt, repair.DeliveredAt, repair.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create repair: %w", err)
	}
	return nil
}

// FindByID loads one ticket.
func (r *RepairRepository) FindByID(ctx context.Context, id string) (*models.Repair, error) {
	var repair models.Repair
	query := fmt.Sprintf(`SELECT %s FROM repairs WHERE id = $1`, repairColumns)
	if err := r.db.GetContext(ctx, &repair, query, id); err != nil {
		return nil, err
	}
	return &repair, nil
}

// List returns tickets newest-first with optional status filtering.
func (r *RepairRepository) List(ctx context.Context, filter models.RepairFilter) ([]models.Repair, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM repairs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		repairColumns, whereClause, size, offset)
	rows := []models.Repair{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list repairs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM repairs WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count repairs: %w", err)
	}
	return rows, total, nil
}

// HistoryByUniqueID returns every ticket sharing the customer identifier,
// newest first. The first element doubles as the latest visit.
func (r *RepairRepository) HistoryByUniqueID(ctx context.Context, uniqueID string) ([]models.Repair, error) {
	query := fmt.Sprintf(`SELECT %s FROM repairs WHERE unique_id = $1 ORDER BY created_at DESC`, repairColumns)
	rows := []models.Repair{}
	if err := r.db.SelectContext(ctx, &rows, query, uniqueID); err != nil {
		return nil, fmt.Errorf("repair history: %w", err)
	}
	return rows, nil
}

// Update applies the partial update and returns the stored row. The SET
// clause is built only from fields the caller provided.
func (r *RepairRepository) Update(ctx context.Context, id string, update models.RepairUpdate) (*models.Repair, error) {
	set := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if update.UniqueID != nil {
		add("unique_id", *update.UniqueID)
	}
	if update.CustomerName != nil {
		add("customer_name", *update.CustomerName)
	}
	if update.PhoneNumber != nil {
		add("phone_number", *update.PhoneNumber)
	}
	if update.Type != nil {
		add("type", *update.Type)
	}
	if update.Brand != nil {
		add("brand", *update.Brand)
	}
	if update.AdapterGiven != nil {
		add("adapter_given", *update.AdapterGiven)
	}
	if update.Problem != nil {
		add("problem", *update.Problem)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.Remark != nil {
		add("remark", *update.Remark)
	}
	if update.ExpectedAmount != nil {
		add("expected_amount", *update.ExpectedAmount)
	}
	if update.ClearAmount {
		set = append(set, "amount = NULL")
	} else if update.Amount != nil {
		add("amount", *update.Amount)
	}
	if update.ClearDelivered {
		set = append(set, "delivered_at = NULL")
	} else if update.DeliveredAt != nil {
		add("delivered_at", *update.DeliveredAt)
	}

	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE repairs SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), repairColumns)

	var stored models.Repair
	if err := r.db.GetContext(ctx, &stored, query, args...); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes a ticket, reporting whether a row was deleted.
func (r *RepairRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM repairs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete repair: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete repair rows: %w", err)
	}
	return affected > 0, nil
}
