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

	"github.com/vyservice/ops-api/internal/middleware"
	"github.com/vyservice/ops-api/internal/models"
	"github.com/vyservice/ops-api/internal/service"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
	"github.com/vyservice/ops-api/pkg/export"
)

type repairServiceMock struct {
	created       *models.Repair
	createErr     error
	lastCreatedBy string
	searchResult  *service.SearchResult
	searchErr     error
	deleteErr     error
	lastIsAdmin   bool
	lastCanRemove bool
}

func (m *repairServiceMock) Create(ctx context.Context, req service.CreateRepairRequest, createdBy string) (*models.Repair, error) {
	m.lastCreatedBy = createdBy
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.created, nil
}

func (m *repairServiceMock) Get(ctx context.Context, id string) (*models.Repair, error) {
	return m.created, nil
}

func (m *repairServiceMock) List(ctx context.Context, filter models.RepairFilter) (*service.RepairListResult, error) {
	return &service.RepairListResult{}, nil
}

func (m *repairServiceMock) Search(ctx context.Context, uniqueID string) (*service.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResult, nil
}

func (m *repairServiceMock) Update(ctx context.Context, id string, req service.UpdateRepairRequest, isAdmin bool) (*models.Repair, error) {
	m.lastIsAdmin = isAdmin
	return m.created, nil
}

func (m *repairServiceMock) Delete(ctx context.Context, id string, isAdmin, canRemove bool) error {
	m.lastIsAdmin = isAdmin
	m.lastCanRemove = canRemove
	return m.deleteErr
}

func newRepairTestContext(t *testing.T, method, url string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
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
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestRepairHandlerCreateRecordsAuthor(t *testing.T) {
	mock := &repairServiceMock{created: &models.Repair{ID: "rep-1", UniqueID: "CUST-42"}}
	h := NewRepairHandler(mock, export.NewPDFExporter(), nil)

	adapter := true
	c, w := newRepairTestContext(t, http.MethodPost, "/repairs", service.CreateRepairRequest{
		UniqueID:     "CUST-42",
		CustomerName: "Ravi",
		PhoneNumber:  "9876543210",
		Type:         "Laptop",
		Brand:        "Dell",
		AdapterGiven: &adapter,
		Problem:      "No display",
	}, &models.JWTClaims{Username: "asha", Role: models.RoleEmployee})
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "asha", mock.lastCreatedBy)
}

func TestRepairHandlerSearchNotFound(t *testing.T) {
	mock := &repairServiceMock{searchErr: appErrors.Clone(appErrors.ErrNotFound, "No repair found with this ID")}
	h := NewRepairHandler(mock, export.NewPDFExporter(), nil)

	c, w := newRepairTestContext(t, http.MethodGet, "/repairs/search/CUST-99", nil, nil)
	c.Params = gin.Params{{Key: "uniqueId", Value: "CUST-99"}}
	h.Search(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No repair found with this ID", body["message"])
}

func TestRepairHandlerSearchEnvelope(t *testing.T) {
	latest := models.Repair{ID: "rep-2", UniqueID: "CUST-42"}
	mock := &repairServiceMock{searchResult: &service.SearchResult{
		Latest:       &latest,
		History:      []models.Repair{latest, {ID: "rep-1", UniqueID: "CUST-42"}},
		TotalEntries: 2,
	}}
	h := NewRepairHandler(mock, export.NewPDFExporter(), nil)

	c, w := newRepairTestContext(t, http.MethodGet, "/repairs/search/CUST-42", nil, nil)
	c.Params = gin.Params{{Key: "uniqueId", Value: "CUST-42"}}
	h.Search(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["totalEntries"])
	history, ok := body["history"].([]interface{})
	require.True(t, ok)
	assert.Len(t, history, 2)
}

func TestRepairHandlerDeletePassesPermissions(t *testing.T) {
	mock := &repairServiceMock{}
	h := NewRepairHandler(mock, export.NewPDFExporter(), nil)

	c, w := newRepairTestContext(t, http.MethodDelete, "/repairs/rep-1", nil, &models.JWTClaims{
		Username:         "asha",
		Role:             models.RoleEmployee,
		CanRemoveRepairs: true,
	})
	c.Params = gin.Params{{Key: "id", Value: "rep-1"}}
	h.Delete(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mock.lastIsAdmin)
	assert.True(t, mock.lastCanRemove)
}

func TestRepairHandlerUpdatePassesAdminFlag(t *testing.T) {
	mock := &repairServiceMock{created: &models.Repair{ID: "rep-1"}}
	h := NewRepairHandler(mock, export.NewPDFExporter(), nil)

	status := models.RepairStatusPending
	c, w := newRepairTestContext(t, http.MethodPatch, "/repairs/rep-1", service.UpdateRepairRequest{
		Status: &status,
	}, &models.JWTClaims{UserID: "admin", Username: "admin", Role: models.RoleAdmin})
	c.Params = gin.Params{{Key: "id", Value: "rep-1"}}
	h.Update(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mock.lastIsAdmin)
}
