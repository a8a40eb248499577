package leave

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"time"
)

type LeaveCategory string

const (
	LeaveCategoryVacation    LeaveCategory = "vacation"
	LeaveCategorySick        LeaveCategory = "sick"
	LeaveCategoryEmergency   LeaveCategory = "emergency"
	LeaveCategoryMaternity   LeaveCategory = "maternity"
	LeaveCategoryPaternity   LeaveCategory = "paternity"
	LeaveCategoryBereavement LeaveCategory = "bereavement"
	LeaveCategoryUnpaid      LeaveCategory = "unpaid"
)

// LeaveType entity. Reference data maintained by admin CRUD; the leave
// engine only reads it.
type LeaveType struct {
	ID   int64
	Name string
	Code string // unique among active rows

	Category              LeaveCategory
	IsPaid                bool
	IsAccruable           bool
	RequiresApproval      bool
	RequiresDocumentation bool
	CanBeCarriedOver      bool

	IsActive  bool
	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ApproverType string

const (
	ApproverTypeSupervisor     ApproverType = "supervisor"
	ApproverTypeManager        ApproverType = "manager"
	ApproverTypeHR             ApproverType = "hr"
	ApproverTypeDepartmentHead ApproverType = "department_head"
)

// ApprovalWorkflowStep is one level of a policy's approval chain.
// Ordering by Level defines the approval sequence.
type ApprovalWorkflowStep struct {
	Level               int          `json:"level"`
	ApproverType        ApproverType `json:"approver_type"`
	ApproverID          int64        `json:"approver_id"`
	IsRequired          bool         `json:"is_required"`
	CanDelegate         bool         `json:"can_delegate"`
	MaxDelegationLevels int          `json:"max_delegation_levels,omitempty"`
}

// ApprovalWorkflow is the JSONB-stored chain of approval steps.
type ApprovalWorkflow []ApprovalWorkflowStep

// Value implements driver.Valuer for database storage
func (w ApprovalWorkflow) Value() (driver.Value, error) {
	if len(w) == 0 {
		return nil, nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner for database retrieval
func (w *ApprovalWorkflow) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan ApprovalWorkflow: invalid type")
	}
	return json.Unmarshal(bytes, w)
}

// Sorted returns the steps in ascending level order without mutating the
// stored slice.
func (w ApprovalWorkflow) Sorted() []ApprovalWorkflowStep {
	steps := make([]ApprovalWorkflowStep, len(w))
	copy(steps, w)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Level < steps[j].Level })
	return steps
}

// BlackoutPeriod is a date range during which a policy disallows new
// leave requests.
type BlackoutPeriod struct {
	Name      string    `json:"name,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type BlackoutPeriods []BlackoutPeriod

func (b BlackoutPeriods) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return json.Marshal(b)
}

func (b *BlackoutPeriods) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan BlackoutPeriods: invalid type")
	}
	return json.Unmarshal(bytes, b)
}

// StringList is a JSONB-stored list of strings (documentation requirements).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan StringList: invalid type")
	}
	return json.Unmarshal(bytes, s)
}

// LeavePolicy holds the employee-type x leave-type rules. Several versions
// may exist for the same pair across time; EffectivePolicy picks one.
type LeavePolicy struct {
	ID           int64
	EmployeeType string
	LeaveTypeID  int64

	AnnualAllocation      float64
	AccrualRate           float64
	MaxCarryOver          float64
	CarryOverExpiryMonths int

	MinimumNoticeHours int
	MaxConsecutiveDays int
	MaxDaysPerRequest  int

	BlackoutPeriods           BlackoutPeriods
	ApprovalWorkflow          ApprovalWorkflow
	DocumentationRequirements StringList

	IsActive      bool
	EffectiveDate time.Time

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PeriodStatus string

const (
	PeriodStatusActive  PeriodStatus = "active"
	PeriodStatusClosed  PeriodStatus = "closed"
	PeriodStatusExpired PeriodStatus = "expired"
)

// LeaveAllocation is the per-employee, per-leave-type, per-cutoff-year
// balance ledger. Available days are always recomputed, never stored.
type LeaveAllocation struct {
	ID          int64
	EmployeeID  int64
	LeaveTypeID int64
	CutoffYear  int

	AllocatedDays float64
	UsedDays      float64
	CarryOverDays float64
	ExpiredDays   float64

	PeriodStatus    PeriodStatus
	CutoffStartDate time.Time
	CutoffEndDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableDays returns allocated + carry-over - used - expired for this
// row. A negative result signals over-allocation and is not clamped.
func (a LeaveAllocation) AvailableDays() float64 {
	return a.AllocatedDays + a.CarryOverDays - a.UsedDays - a.ExpiredDays
}

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// Leave is the aggregate root for one leave request. Start and end dates
// are an inclusive calendar range. TotalDays is caller-supplied and
// validated for positivity, not recomputed from the range.
type Leave struct {
	ID          int64
	EmployeeID  int64
	LeaveTypeID int64

	StartDate time.Time
	EndDate   time.Time
	TotalDays float64
	Reason    string

	Status     LeaveStatus
	CutoffYear int

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	// Relationships (for responses)
	LeaveTypeName *string
}

type ApprovalStatus string

const (
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusRejected  ApprovalStatus = "rejected"
	ApprovalStatusDelegated ApprovalStatus = "delegated"
)

// LeaveApproval is one row per approval-workflow level for a leave
// request. All rows start pending at leave-creation time.
type LeaveApproval struct {
	ID            int64
	LeaveID       int64
	ApproverID    int64
	ApprovalLevel int
	Status        ApprovalStatus

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
