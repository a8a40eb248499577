package leave

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
)

// RequestService creates leave requests: it validates the command against
// the leave type, existing requests, allocations and the effective policy,
// then persists the request, its approval chain and an activity-log entry
// inside one transaction.
type RequestService struct {
	db *database.DB
	tx database.Transactor

	employees   employee.EmployeeRepository
	leaveTypes  leave.LeaveTypeRepository
	policies    leave.LeavePolicyRepository
	allocations leave.LeaveAllocationRepository
	leaves      leave.LeaveRepository
	approvals   leave.LeaveApprovalRepository
	logs        activitylog.ActivityLogRepository
}

func NewRequestService(
	db *database.DB,
	tx database.Transactor,
	employeeRepository employee.EmployeeRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
	leavePolicyRepository leave.LeavePolicyRepository,
	leaveAllocationRepository leave.LeaveAllocationRepository,
	leaveRepository leave.LeaveRepository,
	leaveApprovalRepository leave.LeaveApprovalRepository,
	activityLogRepository activitylog.ActivityLogRepository,
) *RequestService {
	return &RequestService{
		db:          db,
		tx:          tx,
		employees:   employeeRepository,
		leaveTypes:  leaveTypeRepository,
		policies:    leavePolicyRepository,
		allocations: leaveAllocationRepository,
		leaves:      leaveRepository,
		approvals:   leaveApprovalRepository,
		logs:        activityLogRepository,
	}
}

// Create runs the whole create-leave unit of work. On any failure the
// transaction rolls back and a failure activity-log entry is written
// outside of it, so the audit trail survives the rollback.
func (s *RequestService) Create(ctx context.Context, cmd leave.CreateLeaveCommand, actorID string, meta *leave.RequestMetadata) (leave.Leave, error) {
	var created leave.Leave

	err := s.tx.WithinTransaction(ctx, "create leave request", func(q database.Querier) error {
		emp, err := s.employees.GetByID(ctx, q, cmd.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to get employee by ID: %w", err)
		}

		leaveType, err := s.leaveTypes.GetByID(ctx, q, cmd.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave type by ID: %w", err)
		}

		// Single-day leave (start == end) is valid; only inverted ranges
		// are rejected.
		if cmd.EndDate.Before(cmd.StartDate) {
			return leave.ErrInvalidDateRange
		}
		if cmd.TotalDays <= 0 {
			return leave.ErrInvalidTotalDays
		}

		// The allocation rows are locked for update here; the balance
		// check and the used-days write below happen against the same
		// locked rows. Concurrent creates for the same employee and
		// leave type serialize on this read.
		allocations, err := s.allocations.GetByEmployeeAndLeaveType(ctx, q, cmd.EmployeeID, cmd.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave allocations: %w", err)
		}
		if len(allocations) == 0 {
			return leave.ErrAllocationNotFound
		}

		// The overlap read must come after the allocation lock. Before
		// the lock it sees a snapshot that can miss a concurrent create
		// committing the same dates while this transaction waits.
		overlapping, err := s.leaves.FindOverlapping(ctx, q, cmd.EmployeeID, cmd.StartDate, cmd.EndDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlappingLeave
		}

		balance := leave.AvailableBalance(allocations)
		if cmd.TotalDays > balance {
			return leave.ErrInsufficientBalance
		}

		policies, err := s.policies.GetByEmployeeTypeAndLeaveType(ctx, q, emp.EmployeeType, cmd.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave policies: %w", err)
		}

		policy, hasPolicy := leave.EffectivePolicy(policies)
		if hasPolicy {
			if err := validateAgainstPolicy(policy, cmd); err != nil {
				return err
			}
		}

		created, err = s.leaves.Create(ctx, q, leave.Leave{
			EmployeeID:  cmd.EmployeeID,
			LeaveTypeID: cmd.LeaveTypeID,
			StartDate:   cmd.StartDate,
			EndDate:     cmd.EndDate,
			TotalDays:   cmd.TotalDays,
			Reason:      cmd.Reason,
			Status:      leave.LeaveStatusPending,
			CutoffYear:  cmd.CutoffYear,
			CreatedBy:   actorID,
			UpdatedBy:   actorID,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		if leaveType.RequiresApproval && hasPolicy {
			for _, step := range policy.ApprovalWorkflow.Sorted() {
				_, err := s.approvals.Create(ctx, q, leave.LeaveApproval{
					LeaveID:       created.ID,
					ApproverID:    step.ApproverID,
					ApprovalLevel: step.Level,
					Status:        leave.ApprovalStatusPending,
					CreatedBy:     actorID,
					UpdatedBy:     actorID,
				})
				if err != nil {
					return fmt.Errorf("failed to create leave approval for level %d: %w", step.Level, err)
				}
			}
		}

		// Pending requests reserve balance immediately; the approval flow
		// releases it again on rejection or cancellation.
		target := leave.AllocationForCutoff(allocations, cmd.CutoffYear)
		if err := s.allocations.AddUsedDays(ctx, q, target.ID, cmd.TotalDays); err != nil {
			return fmt.Errorf("failed to reserve allocation balance: %w", err)
		}

		if _, err := s.logs.Create(ctx, q, s.buildLogEntry(cmd, actorID, meta, true, 201, nil)); err != nil {
			return fmt.Errorf("failed to write activity log: %w", err)
		}

		return nil
	})
	if err != nil {
		s.recordFailure(ctx, cmd, actorID, meta, err)
		return leave.Leave{}, err
	}

	return created, nil
}

// GetByID returns one leave request with its approval chain.
func (s *RequestService) GetByID(ctx context.Context, id int64) (leave.Leave, []leave.LeaveApproval, error) {
	request, err := s.leaves.GetByID(ctx, s.db, id)
	if err != nil {
		return leave.Leave{}, nil, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	approvals, err := s.approvals.GetByLeaveID(ctx, s.db, id)
	if err != nil {
		return leave.Leave{}, nil, fmt.Errorf("failed to get leave approvals: %w", err)
	}

	return request, approvals, nil
}

// GetByEmployeeID returns an employee's leave requests with a total count.
func (s *RequestService) GetByEmployeeID(ctx context.Context, employeeID int64, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	return s.leaves.GetByEmployeeID(ctx, s.db, employeeID, filter)
}

// Delete soft-deletes a leave request. Pending requests give back the
// days reserved at creation; approved requests keep their consumed
// balance until an approval flow reverses them.
func (s *RequestService) Delete(ctx context.Context, id int64, actorID string) error {
	return s.tx.WithinTransaction(ctx, "delete leave request", func(q database.Querier) error {
		request, err := s.leaves.GetByID(ctx, q, id)
		if err != nil {
			return fmt.Errorf("failed to get leave request by ID: %w", err)
		}

		if request.Status == leave.LeaveStatusPending {
			allocations, err := s.allocations.GetByEmployeeAndLeaveType(ctx, q, request.EmployeeID, request.LeaveTypeID)
			if err != nil {
				return fmt.Errorf("failed to get leave allocations: %w", err)
			}
			if len(allocations) > 0 {
				target := leave.AllocationForCutoff(allocations, request.CutoffYear)
				if err := s.allocations.AddUsedDays(ctx, q, target.ID, -request.TotalDays); err != nil {
					return fmt.Errorf("failed to release allocation balance: %w", err)
				}
			}
		}

		return s.leaves.SoftDelete(ctx, q, id, actorID)
	})
}

// ListTypes returns the active leave types.
func (s *RequestService) ListTypes(ctx context.Context) ([]leave.LeaveType, error) {
	return s.leaveTypes.List(ctx, s.db)
}

func validateAgainstPolicy(policy leave.LeavePolicy, cmd leave.CreateLeaveCommand) error {
	if policy.MaxDaysPerRequest > 0 && cmd.TotalDays > float64(policy.MaxDaysPerRequest) {
		return leave.ErrExceedsMaxDaysPerRequest
	}

	if policy.MaxConsecutiveDays > 0 {
		span := int(cmd.EndDate.Sub(cmd.StartDate).Hours()/24) + 1
		if span > policy.MaxConsecutiveDays {
			return leave.ErrExceedsMaxConsecutiveDays
		}
	}

	if _, blocked := policy.BlackoutFor(cmd.StartDate, cmd.EndDate); blocked {
		return leave.ErrBlackoutPeriod
	}

	if policy.MinimumNoticeHours > 0 {
		notice := time.Duration(policy.MinimumNoticeHours) * time.Hour
		if time.Until(cmd.StartDate) < notice {
			return leave.ErrInsufficientNotice
		}
	}

	return nil
}

func (s *RequestService) buildLogEntry(cmd leave.CreateLeaveCommand, actorID string, meta *leave.RequestMetadata, success bool, statusCode int, opErr error) activitylog.Entry {
	details, err := json.Marshal(map[string]interface{}{
		"employeeId":  cmd.EmployeeID,
		"leaveTypeId": cmd.LeaveTypeID,
		"startDate":   cmd.StartDate.Format("2006-01-02"),
		"endDate":     cmd.EndDate.Format("2006-01-02"),
		"totalDays":   cmd.TotalDays,
		"cutoffYear":  cmd.CutoffYear,
	})
	if err != nil {
		details = []byte("{}")
	}

	entry := activitylog.Entry{
		Action:      activitylog.ActionCreateLeave,
		Entity:      activitylog.EntityLeave,
		UserID:      actorID,
		Details:     string(details),
		Description: "Create leave request",
		IsSuccess:   success,
		StatusCode:  statusCode,
		CreatedBy:   actorID,
	}

	if meta != nil {
		entry.IPAddress = &meta.IPAddress
		entry.UserAgent = &meta.UserAgent
		entry.SessionID = &meta.SessionID
		entry.Username = &meta.Username
	}

	if opErr != nil {
		message := opErr.Error()
		entry.ErrorMessage = &message
	}

	return entry
}

// recordFailure writes the failure audit entry on the pool, outside the
// rolled-back transaction. A failing log write must not mask the original
// error, so it is only logged.
func (s *RequestService) recordFailure(ctx context.Context, cmd leave.CreateLeaveCommand, actorID string, meta *leave.RequestMetadata, opErr error) {
	entry := s.buildLogEntry(cmd, actorID, meta, false, 500, opErr)
	if _, err := s.logs.Create(ctx, s.db, entry); err != nil {
		slog.Error("failed to write failure activity log", "error", err, "action", entry.Action)
	}
}
