package models

import "time"

// DateLayout is the calendar-day format persisted for attendance keys.
const DateLayout = "2006-01-02"

// MonthLayout is the YYYY-MM query format for month lookups.
const MonthLayout = "2006-01"

// Attendance records one employee's presence on one calendar day.
// Uniqueness over (employee_id, date) is enforced by the schema; it is
// the only guard against concurrent duplicate marks.
type Attendance struct {
	ID           string    `db:"id" json:"id"`
	EmployeeID   string    `db:"employee_id" json:"employeeId"`
	EmployeeName *string   `db:"employee_name" json:"employeeName,omitempty"`
	Date         string    `db:"date" json:"date"`
	IPAddress    *string   `db:"ip_address" json:"ipAddress,omitempty"`
	Lat          *float64  `db:"lat" json:"lat,omitempty"`
	Lng          *float64  `db:"lng" json:"lng,omitempty"`
	Accuracy     *float64  `db:"accuracy" json:"accuracy,omitempty"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// TodayPresence summarises who has marked attendance today.
type TodayPresence struct {
	Count       int      `json:"count"`
	EmployeeIDs []string `json:"employeeIds"`
}
