package models

import "time"

// RepairStatus is the ticket lifecycle status. Delivery is tracked
// separately through DeliveredAt: a "Not Completed" ticket can still be
// delivered back to the customer as unrepairable.
type RepairStatus string

const (
	RepairStatusPending      RepairStatus = "Pending"
	RepairStatusCompleted    RepairStatus = "Completed"
	RepairStatusNotCompleted RepairStatus = "Not Completed"
)

// Valid returns true when the status is a supported value.
func (s RepairStatus) Valid() bool {
	switch s {
	case RepairStatusPending, RepairStatusCompleted, RepairStatusNotCompleted:
		return true
	default:
		return false
	}
}

// Repair is one repair job. UniqueID is the customer-facing identifier
// and is intentionally NOT unique: repeat visits by the same
// customer/device reuse it, and history queries group by it.
type Repair struct {
	ID             string       `db:"id" json:"id"`
	UniqueID       string       `db:"unique_id" json:"uniqueId"`
	CustomerName   string       `db:"customer_name" json:"customerName"`
	PhoneNumber    string       `db:"phone_number" json:"phoneNumber"`
	Type           string       `db:"type" json:"type"`
	Brand          string       `db:"brand" json:"brand"`
	AdapterGiven   bool         `db:"adapter_given" json:"adapterGiven"`
	Problem        string       `db:"problem" json:"problem"`
	Status         RepairStatus `db:"status" json:"status"`
	Remark         string       `db:"remark" json:"remark"`
	ExpectedAmount *float64     `db:"expected_amount" json:"expectedAmount,omitempty"`
	Amount         *float64     `db:"amount" json:"amount,omitempty"`
	CreatedBy      string       `db:"created_by" json:"createdBy"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	DeliveredAt    *time.Time   `db:"delivered_at" json:"deliveredAt,omitempty"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// Delivered reports whether the ticket has been handed back.
func (r *Repair) Delivered() bool {
	return r.DeliveredAt != nil
}

// RepairFilter scopes listing queries.
type RepairFilter struct {
	Status   *RepairStatus
	Page     int
	PageSize int
}

// RepairUpdate carries a partial update. Pointer fields distinguish
// "leave unchanged" (nil) from "set to this value"; ClearDeliveredAt
// and ClearAmount express the explicit nulls of the revert flow.
type RepairUpdate struct {
	UniqueID       *string
	CustomerName   *string
	PhoneNumber    *string
	Type           *string
	Brand          *string
	AdapterGiven   *bool
	Problem        *string
	Status         *RepairStatus
	Remark         *string
	ExpectedAmount *float64
	Amount         *float64
	ClearAmount    bool
	DeliveredAt    *time.Time
	ClearDelivered bool
}
