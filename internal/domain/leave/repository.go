package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	GetByID(ctx context.Context, q database.Querier, id int64) (LeaveType, error)
	List(ctx context.Context, q database.Querier) ([]LeaveType, error)
}

// LeavePolicyRepository - interface for leave_policies table
type LeavePolicyRepository interface {
	GetByEmployeeTypeAndLeaveType(ctx context.Context, q database.Querier, employeeType string, leaveTypeID int64) ([]LeavePolicy, error)
}

// LeaveAllocationRepository - interface for leave_allocations table
type LeaveAllocationRepository interface {
	// GetByEmployeeAndLeaveType returns every allocation row for the pair.
	// Implementations must lock the rows when q is a transaction so a
	// concurrent create cannot pass the balance check on stale reads.
	GetByEmployeeAndLeaveType(ctx context.Context, q database.Querier, employeeID, leaveTypeID int64) ([]LeaveAllocation, error)
	AddUsedDays(ctx context.Context, q database.Querier, allocationID int64, days float64) error
}

// LeaveRepository - interface for leave_requests table
type LeaveRepository interface {
	Create(ctx context.Context, q database.Querier, request Leave) (Leave, error)
	GetByID(ctx context.Context, q database.Querier, id int64) (Leave, error)
	// FindOverlapping returns non-rejected, non-cancelled requests of the
	// employee whose inclusive date range touches [startDate, endDate].
	FindOverlapping(ctx context.Context, q database.Querier, employeeID int64, startDate, endDate time.Time) ([]Leave, error)
	GetByEmployeeID(ctx context.Context, q database.Querier, employeeID int64, filter LeaveFilter) ([]Leave, int64, error)
	SoftDelete(ctx context.Context, q database.Querier, id int64, deletedBy string) error
}

// LeaveApprovalRepository - interface for leave_approvals table
type LeaveApprovalRepository interface {
	Create(ctx context.Context, q database.Querier, approval LeaveApproval) (LeaveApproval, error)
	GetByLeaveID(ctx context.Context, q database.Querier, leaveID int64) ([]LeaveApproval, error)
}
