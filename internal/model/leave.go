package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	LeaveStatusOpen      = "Open"
	LeaveStatusApproved  = "Approved"
	LeaveStatusRejected  = "Rejected"
	LeaveStatusCancelled = "Cancelled"
)

// PendingStatuses is the status subset for "pending leaves" queries.
var PendingStatuses = []string{LeaveStatusOpen}

// FinalizedStatuses is the status subset for leave-history queries.
var FinalizedStatuses = []string{LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled}

// LeaveAllocation grants an employee a quota of one leave type. Only
// approved allocations count toward balance queries.
type LeaveAllocation struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID     string        `bson:"employee" json:"employee"`
	LeaveType      string        `bson:"leave_type" json:"leave_type"`
	TotalAllocated float64       `bson:"total_allocated" json:"total_allocated"`
	Balance        float64       `bson:"balance" json:"balance"`
	Status         string        `bson:"status" json:"status"`
	FromDate       string        `bson:"from_date,omitempty" json:"from_date,omitempty"`
	ToDate         string        `bson:"to_date,omitempty" json:"to_date,omitempty"`
}

// Used returns the number of leave days consumed from this allocation.
func (a LeaveAllocation) Used() float64 {
	return a.TotalAllocated - a.Balance
}

// LeaveApplication is a single leave request of an employee.
type LeaveApplication struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID string        `bson:"employee" json:"employee"`
	LeaveType  string        `bson:"leave_type" json:"leave_type"`
	FromDate   string        `bson:"from_date" json:"from_date"` // YYYY-MM-DD
	ToDate     string        `bson:"to_date" json:"to_date"`     // YYYY-MM-DD
	Days       float64       `bson:"total_days" json:"total_days"`
	Status     string        `bson:"status" json:"status"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updated_at"`
}
