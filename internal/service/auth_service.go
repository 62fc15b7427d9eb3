package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/pkg/config"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

// AuthService issues and validates access tokens. The admin account is
// configured credentials, never a row in the employees table.
type AuthService struct {
	repo        employeeRepository
	validatorFn *validator.Validate
	logger      *zap.Logger
	jwtCfg      config.JWTConfig
	adminCfg    config.AdminConfig
	now         func() time.Time
}

// NewAuthService constructs the service.
func NewAuthService(repo employeeRepository, validate *validator.Validate, logger *zap.Logger, jwtCfg config.JWTConfig, adminCfg config.AdminConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		repo:        repo,
		validatorFn: validate,
		logger:      logger,
		jwtCfg:      jwtCfg,
		adminCfg:    adminCfg,
		now:         time.Now,
	}
}

// AdminLogin authenticates against the configured admin credentials.
func (s *AuthService) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and password are required")
	}
	if s.adminCfg.Password == "" ||
		req.Username != s.adminCfg.Username || req.Password != s.adminCfg.Password {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
	}

	token, expiresIn, err := s.issueToken(models.JWTClaims{
		Username: s.adminCfg.Username,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin login", zap.String("username", s.adminCfg.Username))
	return &models.LoginResponse{
		Token:     token,
		Role:      models.RoleAdmin,
		ExpiresIn: expiresIn,
		User:      models.UserInfo{Username: s.adminCfg.Username, CanRemoveRepairs: true},
	}, nil
}

// EmployeeLogin authenticates against the shared login route. The
// configured admin credentials short-circuit to an admin session
// before the employees table is consulted. Accounts the admin has not
// approved yet are refused with a distinct pending error.
func (s *AuthService) EmployeeLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Username and password are required")
	}

	if s.adminCfg.Password != "" &&
		req.Username == s.adminCfg.Username && req.Password == s.adminCfg.Password {
		return s.AdminLogin(ctx, req)
	}

	employee, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, wrapStorage(err, "failed to fetch employee")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
	}
	if !employee.IsApproved {
		return nil, appErrors.Clone(appErrors.ErrAccountPending, "Account awaiting admin approval")
	}

	token, expiresIn, err := s.issueToken(models.JWTClaims{
		UserID:           employee.ID,
		Username:         employee.Username,
		Role:             models.RoleEmployee,
		AllowedCards:     employee.AllowedCards,
		CanRemoveRepairs: employee.CanRemoveRepairs,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee login", zap.String("employee_id", employee.ID), zap.String("username", employee.Username))
	return &models.LoginResponse{
		Token:     token,
		Role:      models.RoleEmployee,
		ExpiresIn: expiresIn,
		User: models.UserInfo{
			ID:               employee.ID,
			Username:         employee.Username,
			AllowedCards:     employee.AllowedCards,
			CanRemoveRepairs: employee.CanRemoveRepairs,
		},
	}, nil
}

func (s *AuthService) issueToken(claims models.JWTClaims) (string, int64, error) {
	now := s.now()
	expiration := s.jwtCfg.Expiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.jwtCfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return signed, int64(expiration.Seconds()), nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtCfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid or expired token")
	}
	return claims, nil
}
