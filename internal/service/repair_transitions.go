package service

import (
	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

// ValidateTransition checks a partial update against the ticket
// lifecycle before it touches storage.
//
// Lifecycle rules:
//   - Pending -> Completed / Not Completed requires a remark describing
//     the outcome (new or already on the ticket).
//   - Only Completed or Not Completed tickets can be delivered; a
//     Pending ticket has nothing to hand back.
//   - Reverting to Pending is an admin correction; it clears the
//     delivery timestamp and the charged amount.
//   - A delivered ticket is closed. Apart from the admin revert, its
//     status can no longer change.
func ValidateTransition(current *models.Repair, update models.RepairUpdate, isAdmin bool) error {
	next := current.Status
	if update.Status != nil {
		if !update.Status.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "Invalid repair status")
		}
		next = *update.Status
	}

	statusChanged := next != current.Status

	if statusChanged && current.Delivered() && !update.ClearDelivered {
		if !(isAdmin && next == models.RepairStatusPending) {
			return appErrors.Clone(appErrors.ErrIllegalTransition, "Delivered repairs cannot change status")
		}
	}

	if statusChanged && next == models.RepairStatusPending && !isAdmin {
		return appErrors.Clone(appErrors.ErrIllegalTransition, "Only an admin can move a repair back to Pending")
	}

	if statusChanged && current.Status == models.RepairStatusPending && next != models.RepairStatusPending {
		remark := current.Remark
		if update.Remark != nil {
			remark = *update.Remark
		}
		if remark == "" {
			return appErrors.Clone(appErrors.ErrIllegalTransition, "A remark is required when closing a repair")
		}
	}

	if update.DeliveredAt != nil {
		if next == models.RepairStatusPending {
			return appErrors.Clone(appErrors.ErrIllegalTransition, "Pending repairs cannot be delivered")
		}
	}

	if update.ClearDelivered && next != models.RepairStatusPending {
		return appErrors.Clone(appErrors.ErrIllegalTransition, "Delivery can only be cleared when reverting to Pending")
	}

	return nil
}
