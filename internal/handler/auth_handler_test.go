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
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

type authServiceMock struct {
	response *models.LoginResponse
	err      error
}

func (m *authServiceMock) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *authServiceMock) EmployeeLogin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func newAuthTestContext(t *testing.T, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthHandlerEmployeeLogin(t *testing.T) {
	mock := &authServiceMock{response: &models.LoginResponse{
		Token:     "signed-token",
		Role:      models.RoleEmployee,
		ExpiresIn: 86400,
		User:      models.UserInfo{Username: "asha"},
	}}
	h := NewAuthHandler(mock, nil)

	c, w := newAuthTestContext(t, models.LoginRequest{Username: "asha", Password: "secret1"})
	h.EmployeeLogin(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "signed-token", data["token"])
}

func TestAuthHandlerEmployeeLoginPending(t *testing.T) {
	mock := &authServiceMock{err: appErrors.Clone(appErrors.ErrAccountPending, "Account awaiting admin approval")}
	h := NewAuthHandler(mock, nil)

	c, w := newAuthTestContext(t, models.LoginRequest{Username: "asha", Password: "secret1"})
	h.EmployeeLogin(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestAuthHandlerMe(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:   "emp-1",
		Username: "asha",
		Role:     models.RoleEmployee,
	})
	h.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "employee", body["role"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "asha", data["username"])
}

func TestAuthHandlerMeWithoutClaims(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{}, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/auth/me", nil)
	require.NoError(t, err)
	c.Request = req
	h.Me(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
