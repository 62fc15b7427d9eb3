package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

type mockEmployeeRepo struct {
	created        *models.Employee
	byID           *models.Employee
	byUsername     *models.Employee
	usernameExists bool
	employees      []models.Employee
	approved       *models.Employee
	credentials    [3]string
	permissions    *models.Employee
	deletedIDs     []string
	deleteOK       bool
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	employee.ID = "emp-new"
	m.created = employee
	return nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	return m.byID, nil
}

func (m *mockEmployeeRepo) FindByUsername(ctx context.Context, username string) (*models.Employee, error) {
	if m.byUsername == nil {
		return nil, sql.ErrNoRows
	}
	return m.byUsername, nil
}

func (m *mockEmployeeRepo) ExistsByUsername(ctx context.Context, username, excludeID string) (bool, error) {
	return m.usernameExists, nil
}

func (m *mockEmployeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	return m.employees, nil
}

func (m *mockEmployeeRepo) UpdateCredentials(ctx context.Context, id, username, passwordHash string) (*models.Employee, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	m.credentials = [3]string{id, username, passwordHash}
	return m.byID, nil
}

func (m *mockEmployeeRepo) Approve(ctx context.Context, id string) (*models.Employee, error) {
	if m.approved == nil {
		return nil, sql.ErrNoRows
	}
	return m.approved, nil
}

func (m *mockEmployeeRepo) UpdatePermissions(ctx context.Context, id string, cards pq.StringArray, canRemoveRepairs bool) (*models.Employee, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	m.byID.AllowedCards = cards
	m.byID.CanRemoveRepairs = canRemoveRepairs
	m.permissions = m.byID
	return m.byID, nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.deleteOK, nil
}

func newTestEmployeeService(repo *mockEmployeeRepo) *EmployeeService {
	return NewEmployeeService(repo, validator.New(), zap.NewNop(), 0)
}

func TestSignupCreatesUnapprovedWithAllCards(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := newTestEmployeeService(repo)

	employee, err := svc.Signup(context.Background(), SignupRequest{Username: "ravi", Password: "secret123"})
	require.NoError(t, err)
	assert.False(t, employee.IsApproved)
	assert.ElementsMatch(t, models.AllCards(), []string(employee.AllowedCards))
	assert.NotEqual(t, "secret123", employee.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte("secret123")))
}

func TestSignupDuplicateUsernameConflicts(t *testing.T) {
	repo := &mockEmployeeRepo{usernameExists: true}
	svc := newTestEmployeeService(repo)

	_, err := svc.Signup(context.Background(), SignupRequest{Username: "ravi", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestSignupValidatesLengths(t *testing.T) {
	svc := newTestEmployeeService(&mockEmployeeRepo{})

	_, err := svc.Signup(context.Background(), SignupRequest{Username: "ab", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGetMissingEmployeeIsNotFound(t *testing.T) {
	svc := newTestEmployeeService(&mockEmployeeRepo{})

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateCredentialsSkipsEmptyFields(t *testing.T) {
	repo := &mockEmployeeRepo{byID: &models.Employee{ID: "emp-1", Username: "ravi"}}
	svc := newTestEmployeeService(repo)

	_, err := svc.UpdateCredentials(context.Background(), "emp-1", UpdateCredentialsRequest{Password: "newsecret"})
	require.NoError(t, err)
	assert.Equal(t, "", repo.credentials[1])
	assert.NotEmpty(t, repo.credentials[2])
}

func TestUpdateCredentialsNothingToUpdate(t *testing.T) {
	svc := newTestEmployeeService(&mockEmployeeRepo{})

	_, err := svc.UpdateCredentials(context.Background(), "emp-1", UpdateCredentialsRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateCredentialsRejectsTakenUsername(t *testing.T) {
	repo := &mockEmployeeRepo{byID: &models.Employee{ID: "emp-1"}, usernameExists: true}
	svc := newTestEmployeeService(repo)

	_, err := svc.UpdateCredentials(context.Background(), "emp-1", UpdateCredentialsRequest{Username: "taken"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSetPermissionsRejectsUnknownCard(t *testing.T) {
	repo := &mockEmployeeRepo{byID: &models.Employee{ID: "emp-1"}}
	svc := newTestEmployeeService(repo)

	canRemove := false
	_, err := svc.SetPermissions(context.Background(), "emp-1", PermissionsRequest{
		AllowedCards:     []string{"payroll"},
		CanRemoveRepairs: &canRemove,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetPermissionsReplacesCardSet(t *testing.T) {
	repo := &mockEmployeeRepo{byID: &models.Employee{ID: "emp-1", AllowedCards: pq.StringArray(models.AllCards())}}
	svc := newTestEmployeeService(repo)

	canRemove := true
	employee, err := svc.SetPermissions(context.Background(), "emp-1", PermissionsRequest{
		AllowedCards:     []string{models.CardRepairList},
		CanRemoveRepairs: &canRemove,
	})
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{models.CardRepairList}, employee.AllowedCards)
	assert.True(t, employee.CanRemoveRepairs)
}

func TestDeleteEmployeeNotFound(t *testing.T) {
	repo := &mockEmployeeRepo{deleteOK: false}
	svc := newTestEmployeeService(repo)

	err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
