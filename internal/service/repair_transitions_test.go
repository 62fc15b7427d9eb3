package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

func statusPtr(s models.RepairStatus) *models.RepairStatus { return &s }
func strPtr(s string) *string                              { return &s }

func pendingRepair() *models.Repair {
	return &models.Repair{ID: "r1", Status: models.RepairStatusPending}
}

func deliveredRepair() *models.Repair {
	ts := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return &models.Repair{ID: "r1", Status: models.RepairStatusCompleted, Remark: "fixed", DeliveredAt: &ts}
}

func TestTransitionCompleteRequiresRemark(t *testing.T) {
	err := ValidateTransition(pendingRepair(), models.RepairUpdate{Status: statusPtr(models.RepairStatusCompleted)}, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}

func TestTransitionCompleteWithRemark(t *testing.T) {
	err := ValidateTransition(pendingRepair(), models.RepairUpdate{
		Status: statusPtr(models.RepairStatusCompleted),
		Remark: strPtr("replaced SSD"),
	}, false)
	assert.NoError(t, err)
}

func TestTransitionCompleteUsesExistingRemark(t *testing.T) {
	current := pendingRepair()
	current.Remark = "awaiting part"
	err := ValidateTransition(current, models.RepairUpdate{Status: statusPtr(models.RepairStatusNotCompleted)}, false)
	assert.NoError(t, err)
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	bogus := models.RepairStatus("Shipped")
	err := ValidateTransition(pendingRepair(), models.RepairUpdate{Status: &bogus}, true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTransitionPendingCannotBeDelivered(t *testing.T) {
	ts := time.Now()
	err := ValidateTransition(pendingRepair(), models.RepairUpdate{DeliveredAt: &ts}, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}

func TestTransitionCompletedCanBeDelivered(t *testing.T) {
	current := &models.Repair{ID: "r1", Status: models.RepairStatusCompleted, Remark: "fixed"}
	ts := time.Now()
	err := ValidateTransition(current, models.RepairUpdate{DeliveredAt: &ts}, false)
	assert.NoError(t, err)
}

func TestTransitionNotCompletedCanBeDelivered(t *testing.T) {
	current := &models.Repair{ID: "r1", Status: models.RepairStatusNotCompleted, Remark: "beyond repair"}
	ts := time.Now()
	err := ValidateTransition(current, models.RepairUpdate{DeliveredAt: &ts}, false)
	assert.NoError(t, err)
}

func TestTransitionRevertIsAdminOnly(t *testing.T) {
	current := &models.Repair{ID: "r1", Status: models.RepairStatusCompleted, Remark: "fixed"}
	update := models.RepairUpdate{Status: statusPtr(models.RepairStatusPending)}

	err := ValidateTransition(current, update, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)

	assert.NoError(t, ValidateTransition(current, update, true))
}

func TestTransitionDeliveredTicketIsFrozen(t *testing.T) {
	err := ValidateTransition(deliveredRepair(), models.RepairUpdate{Status: statusPtr(models.RepairStatusNotCompleted)}, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}

func TestTransitionAdminRevertsDeliveredTicket(t *testing.T) {
	err := ValidateTransition(deliveredRepair(), models.RepairUpdate{
		Status:         statusPtr(models.RepairStatusPending),
		ClearDelivered: true,
		ClearAmount:    true,
	}, true)
	assert.NoError(t, err)
}

func TestTransitionClearDeliveredOnlyWithRevert(t *testing.T) {
	err := ValidateTransition(deliveredRepair(), models.RepairUpdate{ClearDelivered: true}, true)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrIllegalTransition.Code, appErrors.FromError(err).Code)
}

func TestTransitionPlainFieldEditIsFine(t *testing.T) {
	err := ValidateTransition(pendingRepair(), models.RepairUpdate{CustomerName: strPtr("New Name")}, false)
	assert.NoError(t, err)
}
