package handler

import (
	"context"
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

type repairService interface {
	Create(ctx context.Context, req service.CreateRepairRequest, createdBy string) (*models.Repair, error)
	Get(ctx context.Context, id string) (*models.Repair, error)
	List(ctx context.Context, filter models.RepairFilter) (*service.RepairListResult, error)
	Search(ctx context.Context, uniqueID string) (*service.SearchResult, error)
	Update(ctx context.Context, id string, req service.UpdateRepairRequest, isAdmin bool) (*models.Repair, error)
	Delete(ctx context.Context, id string, isAdmin, canRemove bool) error
}

// RepairHandler exposes the repair ticket lifecycle over HTTP.
type RepairHandler struct {
	service repairService
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewRepairHandler constructs the handler.
func NewRepairHandler(svc repairService, pdf *export.PDFExporter, logger *zap.Logger) *RepairHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepairHandler{service: svc, pdf: pdf, logger: logger}
}

// Create godoc
// @Summary Register a repair ticket
// @Tags Repairs
// @Accept json
// @Produce json
// @Param request body service.CreateRepairRequest true "Ticket"
// @Success 201 {object} map[string]interface{}
// @Router /repairs [post]
func (h *RepairHandler) Create(c *gin.Context) {
	var req service.CreateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	createdBy := "unknown"
	if claims := claimsFromContext(c); claims != nil {
		createdBy = claims.Username
	}

	repair, err := h.service.Create(c.Request.Context(), req, createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, repair)
}

// List godoc
// @Summary List repair tickets
// @Tags Repairs
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /repairs [get]
func (h *RepairHandler) List(c *gin.Context) {
	filter := models.RepairFilter{}
	if raw := c.Query("status"); raw != "" {
		status := models.RepairStatus(raw)
		filter.Status = &status
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "100"))

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONExtra(c, http.StatusOK, result.Repairs, gin.H{"pagination": result.Pagination})
}

// Search godoc
// @Summary Find repairs by customer identifier
// @Tags Repairs
// @Produce json
// @Param uniqueId path string true "Customer-facing identifier"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /repairs/search/{uniqueId} [get]
func (h *RepairHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Param("uniqueId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSONExtra(c, http.StatusOK, result.Latest, gin.H{
		"history":      result.History,
		"totalEntries": result.TotalEntries,
	})
}

// Update godoc
// @Summary Partially update a repair ticket
// @Tags Repairs
// @Accept json
// @Produce json
// @Param id path string true "Repair ID"
// @Param request body service.UpdateRepairRequest true "Partial update"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /repairs/{id} [put]
func (h *RepairHandler) Update(c *gin.Context) {
	var req service.UpdateRepairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid request body"))
		return
	}

	repair, err := h.service.Update(c.Request.Context(), c.Param("id"), req, isAdmin(claimsFromContext(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, repair)
}

// Delete godoc
// @Summary Delete a pending repair ticket
// @Tags Repairs
// @Produce json
// @Param id path string true "Repair ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /repairs/{id} [delete]
func (h *RepairHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	canRemove := claims != nil && claims.CanRemoveRepairs

	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id, isAdmin(claims), canRemove); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id})
}

// Receipt godoc
// @Summary Render a printable PDF receipt for a ticket
// @Tags Repairs
// @Produce application/pdf
// @Param id path string true "Repair ID"
// @Success 200 {string} string "PDF payload"
// @Router /repairs/{id}/receipt [get]
func (h *RepairHandler) Receipt(c *gin.Context) {
	repair, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	adapter := "No"
	if repair.AdapterGiven {
		adapter = "Yes"
	}
	fields := []export.Field{
		{Label: "Receipt ID", Value: repair.UniqueID},
		{Label: "Customer", Value: repair.CustomerName},
		{Label: "Phone", Value: repair.PhoneNumber},
		{Label: "Device", Value: repair.Brand + " " + repair.Type},
		{Label: "Adapter Given", Value: adapter},
		{Label: "Problem", Value: repair.Problem},
		{Label: "Status", Value: string(repair.Status)},
		{Label: "Registered", Value: repair.CreatedAt.Format("02 Jan 2006 15:04")},
	}
	if repair.ExpectedAmount != nil {
		fields = append(fields, export.Field{Label: "Expected Amount", Value: fmt.Sprintf("%.2f", *repair.ExpectedAmount)})
	}
	if repair.Amount != nil {
		fields = append(fields, export.Field{Label: "Amount Charged", Value: fmt.Sprintf("%.2f", *repair.Amount)})
	}
	if repair.DeliveredAt != nil {
		fields = append(fields, export.Field{Label: "Delivered", Value: repair.DeliveredAt.Format("02 Jan 2006 15:04")})
	}
	if repair.Remark != "" {
		fields = append(fields, export.Field{Label: "Remark", Value: repair.Remark})
	}

	data, err := h.pdf.RenderDocument("Repair Receipt", fields, nil)
	if err != nil {
		h.logger.Error("failed to render receipt", zap.String("repair_id", repair.ID), zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt"))
		return
	}

	filename := fmt.Sprintf("receipt-%s-%s.pdf", repair.UniqueID, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
