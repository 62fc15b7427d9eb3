package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/internal/service"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
	"github.com/vyservice/ops-api/pkg/export"
	"github.com/vyservice/ops-api/pkg/response"
)

type attendanceService interface {
	Mark(ctx context.Context, req service.MarkAttendanceRequest) (*service.MarkResult, error)
	Check(ctx context.Context, ip string, lat, lng *float64) (*service.CheckResult, error)
	MonthDays(ctx context.Context, employeeID, month string) ([]string, error)
	TodayCount(ctx context.Context) (*models.TodayPresence, error)
	AdminSet(ctx context.Context, req service.AdminSetRequest) (*service.AdminSetResult, error)
	MonthExportRows(ctx context.Context, month string) ([]map[string]string, error)
}

// AttendanceHandler exposes the attendance ledger over HTTP.
type AttendanceHandler struct {
	service attendanceService
	csv     *export.CSVExporter
	logger  *zap.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService, csv *export.CSVExporter, logger *zap.Logger) *AttendanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceHandler{service: svc, csv: csv, logger: logger}
}

// markRequest is the raw wire form. The mobile clients send lat/lng
// either as numbers or as strings, so coordinates are coerced after
// binding.
type markRequest struct {
	EmployeeID   string      `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	CurrentIP    string      `json:"currentIp"`
	Lat          interface{} `json:"lat"`
	Lng          interface{} `json:"lng"`
	Accuracy     interface{} `json:"accuracy"`
}

func coerceCoord(v interface{}) *float64 {
	switch value := v.(type) {
	case float64:
		return &value
	case string:
		if value == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// Mark godoc
// @Summary Mark today's attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param request body markRequest true "Presence claim"
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var raw markRequest
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	if raw.EmployeeID == "" || raw.CurrentIP == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "employeeId and currentIp are required"))
		return
	}

	req := service.MarkAttendanceRequest{
		EmployeeID:   raw.EmployeeID,
		EmployeeName: raw.EmployeeName,
		CurrentIP:    raw.CurrentIP,
		Lat:          coerceCoord(raw.Lat),
		Lng:          coerceCoord(raw.Lng),
		Accuracy:     coerceCoord(raw.Accuracy),
	}

	result, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		var rejection *service.GeofenceRejection
		if errors.As(err, &rejection) {
			response.ErrorExtra(c, appErrors.Clone(appErrors.ErrGeofenceRejected, rejection.Error()), gin.H{
				"ipMatch":       rejection.Decision.IPMatch,
				"locationMatch": rejection.Decision.LocationMatch,
				"currentIp":     rejection.IP,
				"office":        rejection.Office,
			})
			return
		}
		response.Error(c, err)
		return
	}

	if result.AlreadyMarked {
		response.JSONExtra(c, http.StatusOK, nil, gin.H{
			"alreadyMarked": true,
			"message":       "Attendance already marked for today",
		})
		return
	}
	response.JSONExtra(c, http.StatusCreated, result.Record, gin.H{"alreadyMarked": false})
}

// Check godoc
// @Summary Evaluate the geofence without marking
// @Tags Attendance
// @Produce json
// @Param ip query string true "Client IP"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Success 200 {object} map[string]interface{}
// @Router /attendance/check [get]
func (h *AttendanceHandler) Check(c *gin.Context) {
	ip := c.Query("ip")
	if ip == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "ip is required"))
		return
	}
	lat := coerceCoord(c.Query("lat"))
	lng := coerceCoord(c.Query("lng"))

	result, err := h.service.Check(c.Request.Context(), ip, lat, lng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONExtra(c, http.StatusOK, nil, gin.H{
		"match":         result.Match,
		"ipMatch":       result.Decision.IPMatch,
		"locationMatch": result.Decision.LocationMatch,
		"currentIp":     result.IP,
		"message":       result.Message,
		"office":        result.Office,
	})
}

// ByEmployee godoc
// @Summary Days an employee was present in a month
// @Tags Attendance
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {object} map[string]interface{}
// @Router /attendance/by-employee/{employeeId} [get]
func (h *AttendanceHandler) ByEmployee(c *gin.Context) {
	days, err := h.service.MonthDays(c.Request.Context(), c.Param("employeeId"), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days)
}

// TodayCount godoc
// @Summary Distinct employees present today
// @Tags Attendance
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /attendance/today-count [get]
func (h *AttendanceHandler) TodayCount(c *gin.Context) {
	presence, err := h.service.TodayCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, presence)
}

// AdminSet godoc
// @Summary Set or unset attendance for any date
// @Tags Attendance
// @Accept json
// @Produce json
// @Param request body service.AdminSetRequest true "Override"
// @Success 200 {object} map[string]interface{}
// @Router /attendance/admin/set [post]
func (h *AttendanceHandler) AdminSet(c *gin.Context) {
	var req service.AdminSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	result, err := h.service.AdminSet(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Removed {
		response.JSONExtra(c, http.StatusOK, nil, gin.H{"removed": true})
		return
	}
	response.JSON(c, http.StatusOK, result.Record)
}

// ExportCSV godoc
// @Summary Export a month of attendance as CSV
// @Tags Attendance
// @Produce text/csv
// @Param month query string false "Month (YYYY-MM), defaults to the current month"
// @Success 200 {string} string "CSV payload"
// @Router /attendance/export [get]
func (h *AttendanceHandler) ExportCSV(c *gin.Context) {
	rows, err := h.service.MonthExportRows(c.Request.Context(), c.Query("month"))
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.csv.Render(export.Dataset{
		Headers: []string{"Date", "Employee ID", "Employee", "IP Address", "Marked At"},
		Rows:    rows,
	})
	if err != nil {
		h.logger.Error("failed to render attendance csv", zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	filename := fmt.Sprintf("attendance-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
