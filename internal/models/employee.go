package models

import (
	"time"

	"github.com/lib/pq"
)

// Feature cards the mobile home screen can expose to an employee.
const (
	CardRepairService = "repair-service"
	CardRepairList    = "repair-list"
	CardAttendance    = "attendance"
)

// AllCards is the default capability set for a new employee.
func AllCards() []string {
	return []string{CardRepairService, CardRepairList, CardAttendance}
}

// ValidCard reports whether the card name is a known capability.
func ValidCard(card string) bool {
	switch card {
	case CardRepairService, CardRepairList, CardAttendance:
		return true
	default:
		return false
	}
}

// Employee is a shop staff account. Accounts start unapproved and are
// unlocked by the admin; AllowedCards gates individual app features.
type Employee struct {
	ID               string         `db:"id" json:"id"`
	Username         string         `db:"username" json:"username"`
	PasswordHash     string         `db:"password_hash" json:"-"`
	IsApproved       bool           `db:"is_approved" json:"isApproved"`
	AllowedCards     pq.StringArray `db:"allowed_cards" json:"allowedCards"`
	CanRemoveRepairs bool           `db:"can_remove_repairs" json:"canRemoveRepairs"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`
}

// HasCard reports whether the employee may use the given feature.
func (e *Employee) HasCard(card string) bool {
	for _, c := range e.AllowedCards {
		if c == card {
			return true
		}
	}
	return false
}
