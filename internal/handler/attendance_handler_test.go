package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyservice/ops-api/internal/geofence"
	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/internal/service"
	"github.com/vyservice/ops-api/pkg/export"
)

type attendanceServiceMock struct {
	markResult  *service.MarkResult
	markErr     error
	lastMarkReq service.MarkAttendanceRequest
	monthDays   []string
	exportRows  []map[string]string
}

func (m *attendanceServiceMock) Mark(ctx context.Context, req service.MarkAttendanceRequest) (*service.MarkResult, error) {
	m.lastMarkReq = req
	if m.markErr != nil {
		return nil, m.markErr
	}
	return m.markResult, nil
}

func (m *attendanceServiceMock) Check(ctx context.Context, ip string, lat, lng *float64) (*service.CheckResult, error) {
	return &service.CheckResult{Match: true, Decision: geofence.Decision{IPMatch: true, LocationMatch: true}, IP: ip}, nil
}

func (m *attendanceServiceMock) MonthDays(ctx context.Context, employeeID, month string) ([]string, error) {
	return m.monthDays, nil
}

func (m *attendanceServiceMock) TodayCount(ctx context.Context) (*models.TodayPresence, error) {
	return &models.TodayPresence{Count: 2, EmployeeIDs: []string{"a", "b"}}, nil
}

func (m *attendanceServiceMock) AdminSet(ctx context.Context, req service.AdminSetRequest) (*service.AdminSetResult, error) {
	return &service.AdminSetResult{Removed: true}, nil
}

func (m *attendanceServiceMock) MonthExportRows(ctx context.Context, month string) ([]map[string]string, error) {
	return m.exportRows, nil
}

func newAttendanceTestContext(t *testing.T, method, url string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAttendanceHandlerMarkAcceptsStringCoords(t *testing.T) {
	mock := &attendanceServiceMock{markResult: &service.MarkResult{Record: &models.Attendance{EmployeeID: "emp-1"}}}
	h := NewAttendanceHandler(mock, export.NewCSVExporter(), nil)

	c, w := newAttendanceTestContext(t, http.MethodPost, "/attendance/mark", gin.H{
		"employeeId": "emp-1",
		"currentIp":  "10.0.0.5",
		"lat":        "12.9716",
		"lng":        77.5946,
	})
	h.Mark(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.lastMarkReq.Lat)
	assert.InDelta(t, 12.9716, *mock.lastMarkReq.Lat, 1e-9)
	require.NotNil(t, mock.lastMarkReq.Lng)
	assert.InDelta(t, 77.5946, *mock.lastMarkReq.Lng, 1e-9)
}

func TestAttendanceHandlerMarkAlreadyMarked(t *testing.T) {
	mock := &attendanceServiceMock{markResult: &service.MarkResult{AlreadyMarked: true}}
	h := NewAttendanceHandler(mock, export.NewCSVExporter(), nil)

	c, w := newAttendanceTestContext(t, http.MethodPost, "/attendance/mark", gin.H{
		"employeeId": "emp-1",
		"currentIp":  "10.0.0.5",
	})
	h.Mark(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["alreadyMarked"])
}

func TestAttendanceHandlerMarkGeofenceRejection(t *testing.T) {
	mock := &attendanceServiceMock{markErr: &service.GeofenceRejection{
		Decision: geofence.Decision{IPMatch: false, LocationMatch: true},
		IP:       "172.16.0.9",
	}}
	h := NewAttendanceHandler(mock, export.NewCSVExporter(), nil)

	c, w := newAttendanceTestContext(t, http.MethodPost, "/attendance/mark", gin.H{
		"employeeId": "emp-1",
		"currentIp":  "172.16.0.9",
	})
	h.Mark(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "GEOFENCE_REJECTED", body["error"])
	assert.Equal(t, false, body["ipMatch"])
	assert.Equal(t, true, body["locationMatch"])
}

func TestAttendanceHandlerMarkRequiresCurrentIP(t *testing.T) {
	mock := &attendanceServiceMock{}
	h := NewAttendanceHandler(mock, export.NewCSVExporter(), nil)

	c, w := newAttendanceTestContext(t, http.MethodPost, "/attendance/mark", gin.H{
		"employeeId": "emp-1",
	})
	h.Mark(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "employeeId and currentIp are required", body["message"])
}

func TestAttendanceHandlerCheckRequiresIP(t *testing.T) {
	mock := &attendanceServiceMock{}
	h := NewAttendanceHandler(mock, export.NewCSVExporter(), nil)

	c, w := newAttendanceTestContext(t, http.MethodGet, "/attendance/check", nil)
	h.Check(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceHandlerExportCSV(t *testing.T) {
	mock := &attendanceServiceMock{exportRows: []map[string]string{{
		"Date": "2026-03-02", "Employee ID": "emp-1", "Employee": "Asha", "IP Address": "10.0.0.5", "Marked At": "2026-03-02T09:00:00Z",
	}}}
	h := NewAttendanceHandler(mock, export.NewCSVExporter(), nil)

	c, w := newAttendanceTestContext(t, http.MethodGet, "/attendance/export?month=2026-03", nil)
	h.ExportCSV(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "emp-1")
}
