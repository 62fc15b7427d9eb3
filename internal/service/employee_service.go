package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

type employeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByUsername(ctx context.Context, username string) (*models.Employee, error)
	ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error)
	List(ctx context.Context) ([]models.Employee, error)
	UpdateCredentials(ctx context.Context, id, username, passwordHash string) (*models.Employee, error)
	Approve(ctx context.Context, id string) (*models.Employee, error)
	UpdatePermissions(ctx context.Context, id string, cards pq.StringArray, canRemoveRepairs bool) (*models.Employee, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SignupRequest creates an account awaiting admin approval.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateCredentialsRequest changes username and/or password. Empty
// fields are left unchanged.
type UpdateCredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PermissionsRequest replaces the capability set for an employee.
type PermissionsRequest struct {
	AllowedCards     []string `json:"allowedCards" validate:"required"`
	CanRemoveRepairs *bool    `json:"canRemoveRepairs" validate:"required"`
}

// EmployeeService manages staff accounts.
type EmployeeService struct {
	repo         employeeRepository
	validatorFn  *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewEmployeeService constructs the service.
func NewEmployeeService(repo employeeRepository, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		repo:         repo,
		validatorFn:  validate,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

func (s *EmployeeService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// Signup registers an unapproved account with the full default card
// set. The admin flips the approval switch later.
func (s *EmployeeService) Signup(ctx context.Context, req SignupRequest) (*models.Employee, error) {
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and password are required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	exists, err := s.repo.ExistsByUsername(ctx, req.Username, "")
	if err != nil {
		return nil, wrapStorage(err, "failed to check username")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	employee := &models.Employee{
		Username:     req.Username,
		PasswordHash: string(hash),
		IsApproved:   false,
		AllowedCards: pq.StringArray(models.AllCards()),
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, wrapStorage(err, "failed to create employee")
	}

	s.logger.Info("employee signup", zap.String("employee_id", employee.ID), zap.String("username", employee.Username))
	return employee, nil
}

// Get loads one account.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
		}
		return nil, wrapStorage(err, "failed to fetch employee")
	}
	return employee, nil
}

// List returns every account for the admin console.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, wrapStorage(err, "failed to list employees")
	}
	return employees, nil
}

// Approve unlocks a pending account.
func (s *EmployeeService) Approve(ctx context.Context, id string) (*models.Employee, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	employee, err := s.repo.Approve(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
		}
		return nil, wrapStorage(err, "failed to approve employee")
	}
	return employee, nil
}

// UpdateCredentials changes username and/or password, skipping empty
// fields. A new username must still be unique.
func (s *EmployeeService) UpdateCredentials(ctx context.Context, id string, req UpdateCredentialsRequest) (*models.Employee, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	if req.Username == "" && req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Nothing to update")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if req.Username != "" {
		exists, err := s.repo.ExistsByUsername(ctx, req.Username, id)
		if err != nil {
			return nil, wrapStorage(err, "failed to check username")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "Username already exists")
		}
	}

	hash := ""
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		hash = string(hashed)
	}

	employee, err := s.repo.UpdateCredentials(ctx, id, req.Username, hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
		}
		return nil, wrapStorage(err, "failed to update credentials")
	}
	return employee, nil
}

// SetPermissions replaces the card set and the removal flag.
func (s *EmployeeService) SetPermissions(ctx context.Context, id string, req PermissionsRequest) (*models.Employee, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "allowedCards and canRemoveRepairs are required")
	}
	for _, card := range req.AllowedCards {
		if !models.ValidCard(card) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Unknown card: "+card)
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	employee, err := s.repo.UpdatePermissions(ctx, id, pq.StringArray(req.AllowedCards), *req.CanRemoveRepairs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
		}
		return nil, wrapStorage(err, "failed to update permissions")
	}
	return employee, nil
}

// Delete removes an account.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return wrapStorage(err, "failed to delete employee")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "Employee not found")
	}
	return nil
}
