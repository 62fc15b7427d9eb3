package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/pkg/config"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

func newTestAuthService(repo *mockEmployeeRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(),
		config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "ops-api-test"},
		config.AdminConfig{Username: "admin", Password: "adminpass"})
}

func TestAdminLoginSuccess(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{})

	res, err := svc.AdminLogin(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
	assert.NotEmpty(t, res.Token)
	assert.True(t, res.User.CanRemoveRepairs)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.HasCard(models.CardAttendance))
}

func TestAdminLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{})

	_, err := svc.AdminLogin(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAdminLoginDisabledWithoutPassword(t *testing.T) {
	svc := NewAuthService(&mockEmployeeRepo{}, validator.New(), zap.NewNop(),
		config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		config.AdminConfig{Username: "admin", Password: ""})

	_, err := svc.AdminLogin(context.Background(), models.LoginRequest{Username: "admin", Password: ""})
	require.Error(t, err)
}

func approvedEmployee(t *testing.T, password string) *models.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &models.Employee{
		ID:           "emp-1",
		Username:     "ravi",
		PasswordHash: string(hash),
		IsApproved:   true,
		AllowedCards: pq.StringArray{models.CardAttendance},
	}
}

func TestEmployeeLoginSuccess(t *testing.T) {
	repo := &mockEmployeeRepo{byUsername: approvedEmployee(t, "secret123")}
	svc := newTestAuthService(repo)

	res, err := svc.EmployeeLogin(context.Background(), models.LoginRequest{Username: "ravi", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, res.Role)
	assert.Equal(t, "emp-1", res.User.ID)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.True(t, claims.HasCard(models.CardAttendance))
	assert.False(t, claims.HasCard(models.CardRepairService))
}

func TestEmployeeLoginAdminCredentialsShortCircuit(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{})

	res, err := svc.EmployeeLogin(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.Role)
	assert.True(t, res.User.CanRemoveRepairs)
}

func TestEmployeeLoginAdminShortCircuitDisabledWithoutPassword(t *testing.T) {
	svc := NewAuthService(&mockEmployeeRepo{}, validator.New(), zap.NewNop(),
		config.JWTConfig{Secret: "test-secret", Expiration: time.Hour},
		config.AdminConfig{Username: "admin", Password: ""})

	_, err := svc.EmployeeLogin(context.Background(), models.LoginRequest{Username: "admin", Password: "anything"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestEmployeeLoginUnapprovedIsPending(t *testing.T) {
	employee := approvedEmployee(t, "secret123")
	employee.IsApproved = false
	svc := newTestAuthService(&mockEmployeeRepo{byUsername: employee})

	_, err := svc.EmployeeLogin(context.Background(), models.LoginRequest{Username: "ravi", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAccountPending.Code, appErrors.FromError(err).Code)
}

func TestEmployeeLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{byUsername: approvedEmployee(t, "secret123")})

	_, err := svc.EmployeeLogin(context.Background(), models.LoginRequest{Username: "ravi", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestEmployeeLoginUnknownUser(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{})

	_, err := svc.EmployeeLogin(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{})

	res, err := svc.AdminLogin(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService(&mockEmployeeRepo{})
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	res, err := svc.AdminLogin(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
}
