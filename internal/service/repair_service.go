package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

type repairRepository interface {
	Create(ctx context.Context, repair *models.Repair) error
	FindByID(ctx context.Context, id string) (*models.Repair, error)
	List(ctx context.Context, filter models.RepairFilter) ([]models.Repair, int, error)
	HistoryByUniqueID(ctx context.Context, uniqueID string) ([]models.Repair, error)
	Update(ctx context.Context, id string, update models.RepairUpdate) (*models.Repair, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// repairNotifier receives fire-and-forget registration notices. The
// send happens off the request path; Create never fails because of it.
type repairNotifier interface {
	NotifyRegistration(repair *models.Repair)
}

// CreateRepairRequest registers a new ticket. AdapterGiven is a pointer
// so the intake form has to answer the question explicitly instead of
// silently defaulting to "no adapter".
type CreateRepairRequest struct {
	UniqueID       string     `json:"uniqueId" validate:"required"`
	CustomerName   string     `json:"customerName" validate:"required"`
	PhoneNumber    string     `json:"phoneNumber" validate:"required"`
	Type           string     `json:"type" validate:"required"`
	Brand          string     `json:"brand" validate:"required"`
	AdapterGiven   *bool      `json:"adapterGiven" validate:"required"`
	Problem        string     `json:"problem" validate:"required"`
	Remark         string     `json:"remark"`
	ExpectedAmount *float64   `json:"expectedAmount"`
	CreatedAt      *time.Time `json:"createdAt"`
}

// UpdateRepairRequest is a partial edit. Delivered=true stamps the
// hand-back time, Delivered=false clears it (revert flows only).
type UpdateRepairRequest struct {
	UniqueID       *string              `json:"uniqueId"`
	CustomerName   *string              `json:"customerName"`
	PhoneNumber    *string              `json:"phoneNumber"`
	Type           *string              `json:"type"`
	Brand          *string              `json:"brand"`
	AdapterGiven   *bool                `json:"adapterGiven"`
	Problem        *string              `json:"problem"`
	Status         *models.RepairStatus `json:"status"`
	Remark         *string              `json:"remark"`
	ExpectedAmount *float64             `json:"expectedAmount"`
	Amount         *float64             `json:"amount"`
	Delivered      *bool                `json:"delivered"`
	DeliveredAt    *time.Time           `json:"deliveredAt"`
}

// SearchResult groups every visit sharing a customer identifier.
type SearchResult struct {
	Latest       *models.Repair
	History      []models.Repair
	TotalEntries int
}

// RepairListResult pairs a page of tickets with the total count.
type RepairListResult struct {
	Repairs    []models.Repair
	Pagination models.Pagination
}

// RepairService implements the ticket lifecycle.
type RepairService struct {
	repo         repairRepository
	notifier     repairNotifier
	validatorFn  *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
	now          func() time.Time
}

// NewRepairService constructs the service. notifier may be nil when
// notifications are disabled.
func NewRepairService(repo repairRepository, notifier repairNotifier, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *RepairService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepairService{
		repo:         repo,
		notifier:     notifier,
		validatorFn:  validate,
		logger:       logger,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

func (s *RepairService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Create registers a ticket in Pending and queues the customer
// notification. A notification failure never fails the registration.
func (s *RepairService) Create(ctx context.Context, req CreateRepairRequest, createdBy string) (*models.Repair, error) {
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "All fields are required")
	}

	repair := &models.Repair{
		UniqueID:       req.UniqueID,
		CustomerName:   req.CustomerName,
		PhoneNumber:    req.PhoneNumber,
		Type:           req.Type,
		Brand:          req.Brand,
		AdapterGiven:   *req.AdapterGiven,
		Problem:        req.Problem,
		Status:         models.RepairStatusPending,
		Remark:         req.Remark,
		ExpectedAmount: req.ExpectedAmount,
		CreatedBy:      createdBy,
	}
	if req.CreatedAt != nil {
		repair.CreatedAt = req.CreatedAt.UTC()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Create(ctx, repair); err != nil {
		return nil, wrapStorage(err, "failed to create repair")
	}

	if s.notifier != nil {
		s.notifier.NotifyRegistration(repair)
	}
	return repair, nil
}

// Get loads a single ticket.
func (s *RepairService) Get(ctx context.Context, id string) (*models.Repair, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "repair id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	repair, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Repair not found")
		}
		return nil, wrapStorage(err, "failed to fetch repair")
	}
	return repair, nil
}

// List returns a page of tickets, optionally filtered by status.
func (s *RepairService) List(ctx context.Context, filter models.RepairFilter) (*RepairListResult, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid repair status")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	repairs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, wrapStorage(err, "failed to list repairs")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	return &RepairListResult{
		Repairs:    repairs,
		Pagination: models.Pagination{Page: page, PageSize: size, TotalCount: total},
	}, nil
}

// Search finds every visit for a customer identifier, newest first. An
// identifier nobody has used is a distinct not-found, not an empty list.
func (s *RepairService) Search(ctx context.Context, uniqueID string) (*SearchResult, error) {
	if uniqueID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unique id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	history, err := s.repo.HistoryByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, wrapStorage(err, "failed to search repairs")
	}
	if len(history) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No repair found with this ID")
	}
	return &SearchResult{
		Latest:       &history[0],
		History:      history,
		TotalEntries: len(history),
	}, nil
}

// Update applies a partial edit after checking it against the ticket
// lifecycle. Reverting to Pending clears the delivery stamp and the
// charged amount so the ticket is genuinely back in the queue.
func (s *RepairService) Update(ctx context.Context, id string, req UpdateRepairRequest, isAdmin bool) (*models.Repair, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update := models.RepairUpdate{
		UniqueID:       req.UniqueID,
		CustomerName:   req.CustomerName,
		PhoneNumber:    req.PhoneNumber,
		Type:           req.Type,
		Brand:          req.Brand,
		AdapterGiven:   req.AdapterGiven,
		Problem:        req.Problem,
		Status:         req.Status,
		Remark:         req.Remark,
		ExpectedAmount: req.ExpectedAmount,
		Amount:         req.Amount,
	}
	// A zero amount means "no charge recorded": stored as NULL, not 0.
	if req.Amount != nil && *req.Amount == 0 {
		update.Amount = nil
		update.ClearAmount = current.Amount != nil
	}
	if req.Delivered != nil {
		if *req.Delivered {
			if current.DeliveredAt == nil {
				deliveredAt := s.now().UTC()
				if req.DeliveredAt != nil {
					deliveredAt = req.DeliveredAt.UTC()
				}
				update.DeliveredAt = &deliveredAt
			}
		} else {
			update.ClearDelivered = current.DeliveredAt != nil
		}
	} else if req.DeliveredAt != nil {
		deliveredAt := req.DeliveredAt.UTC()
		update.DeliveredAt = &deliveredAt
	}
	if req.Status != nil && *req.Status == models.RepairStatusPending && current.Status != models.RepairStatusPending {
		update.ClearDelivered = current.DeliveredAt != nil
		update.ClearAmount = current.Amount != nil
		update.Amount = nil
		update.DeliveredAt = nil
	}

	if err := ValidateTransition(current, update, isAdmin); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stored, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Repair not found")
		}
		return nil, wrapStorage(err, "failed to update repair")
	}
	return stored, nil
}

// Delete removes a ticket. Only Pending tickets can be deleted, and
// only by an admin or an employee granted removal rights.
func (s *RepairService) Delete(ctx context.Context, id string, isAdmin, canRemove bool) error {
	if !isAdmin && !canRemove {
		return appErrors.Clone(appErrors.ErrForbidden, "You are not allowed to remove repairs")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != models.RepairStatusPending {
		return appErrors.Clone(appErrors.ErrIllegalTransition, "Only pending repairs can be deleted")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapStorage(err, "failed to delete repair")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "Repair not found")
	}
	return nil
}
