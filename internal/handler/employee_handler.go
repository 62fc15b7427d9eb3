package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/internal/service"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
	"github.com/vyservice/ops-api/pkg/response"
)

type employeeService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*models.Employee, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Approve(ctx context.Context, id string) (*models.Employee, error)
	UpdateCredentials(ctx context.Context, id string, req service.UpdateCredentialsRequest) (*models.Employee, error)
	SetPermissions(ctx context.Context, id string, req service.PermissionsRequest) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeHandler exposes staff account management over HTTP.
type EmployeeHandler struct {
	service employeeService
	logger  *zap.Logger
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(svc employeeService, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{service: svc, logger: logger}
}

// Signup godoc
// @Summary Create an employee account awaiting approval
// @Tags Employees
// @Accept json
// @Produce json
// @Param request body service.SignupRequest true "Credentials"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /employees/signup [post]
func (h *EmployeeHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	employee, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONExtra(c, http.StatusCreated, employee, gin.H{
		"message": "Account created, awaiting admin approval",
	})
}

// List godoc
// @Summary List employee accounts
// @Tags Employees
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees)
}

// Get godoc
// @Summary Fetch one employee account
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} map[string]interface{}
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee)
}

// Approve godoc
// @Summary Approve a pending account
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} map[string]interface{}
// @Router /employees/{id}/approve [post]
func (h *EmployeeHandler) Approve(c *gin.Context) {
	employee, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee)
}

// UpdateCredentials godoc
// @Summary Change username and/or password
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body service.UpdateCredentialsRequest true "New credentials"
// @Success 200 {object} map[string]interface{}
// @Router /employees/{id}/credentials [patch]
func (h *EmployeeHandler) UpdateCredentials(c *gin.Context) {
	var req service.UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	employee, err := h.service.UpdateCredentials(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee)
}

// SetPermissions godoc
// @Summary Replace the feature card set and removal flag
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body service.PermissionsRequest true "Permissions"
// @Success 200 {object} map[string]interface{}
// @Router /employees/{id}/permissions [patch]
func (h *EmployeeHandler) SetPermissions(c *gin.Context) {
	var req service.PermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	employee, err := h.service.SetPermissions(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee)
}

// Delete godoc
// @Summary Delete an employee account
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} map[string]interface{}
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSONExtra(c, http.StatusOK, nil, gin.H{"message": "Employee deleted"})
}
