package leave

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr201-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr201-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== in-memory fakes =====

// memStore backs the fake repositories. The fake transactor serializes
// units of work with txMu and restores a snapshot on error, mirroring the
// rollback behavior of the real transactor. Activity logs live outside
// the snapshot: the failure path writes them after rollback.
type memStore struct {
	txMu  sync.Mutex
	logMu sync.Mutex

	employees   map[int64]employee.Employee
	leaveTypes  map[int64]leave.LeaveType
	policies    []leave.LeavePolicy
	allocations []leave.LeaveAllocation
	leaves      []leave.Leave
	approvals   []leave.LeaveApproval
	logs        []activitylog.Entry

	nextLeaveID    int64
	nextApprovalID int64
}

type storeSnapshot struct {
	allocations []leave.LeaveAllocation
	leaves      []leave.Leave
	approvals   []leave.LeaveApproval
}

func (s *memStore) snapshot() storeSnapshot {
	return storeSnapshot{
		allocations: append([]leave.LeaveAllocation(nil), s.allocations...),
		leaves:      append([]leave.Leave(nil), s.leaves...),
		approvals:   append([]leave.LeaveApproval(nil), s.approvals...),
	}
}

func (s *memStore) restore(snap storeSnapshot) {
	s.allocations = snap.allocations
	s.leaves = snap.leaves
	s.approvals = snap.approvals
}

type memTransactor struct{ store *memStore }

func (t *memTransactor) WithinTransaction(ctx context.Context, label string, fn func(q database.Querier) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(nil); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type memEmployeeRepo struct{ store *memStore }

func (r *memEmployeeRepo) GetByID(ctx context.Context, q database.Querier, id int64) (employee.Employee, error) {
	emp, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type memLeaveTypeRepo struct{ store *memStore }

func (r *memLeaveTypeRepo) GetByID(ctx context.Context, q database.Querier, id int64) (leave.LeaveType, error) {
	lt, ok := r.store.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *memLeaveTypeRepo) List(ctx context.Context, q database.Querier) ([]leave.LeaveType, error) {
	var types []leave.LeaveType
	for _, lt := range r.store.leaveTypes {
		types = append(types, lt)
	}
	return types, nil
}

type memPolicyRepo struct{ store *memStore }

func (r *memPolicyRepo) GetByEmployeeTypeAndLeaveType(ctx context.Context, q database.Querier, employeeType string, leaveTypeID int64) ([]leave.LeavePolicy, error) {
	var policies []leave.LeavePolicy
	for _, p := range r.store.policies {
		if p.EmployeeType == employeeType && p.LeaveTypeID == leaveTypeID {
			policies = append(policies, p)
		}
	}
	return policies, nil
}

type memAllocationRepo struct{ store *memStore }

func (r *memAllocationRepo) GetByEmployeeAndLeaveType(ctx context.Context, q database.Querier, employeeID, leaveTypeID int64) ([]leave.LeaveAllocation, error) {
	var allocations []leave.LeaveAllocation
	for _, a := range r.store.allocations {
		if a.EmployeeID == employeeID && a.LeaveTypeID == leaveTypeID {
			allocations = append(allocations, a)
		}
	}
	return allocations, nil
}

func (r *memAllocationRepo) AddUsedDays(ctx context.Context, q database.Querier, allocationID int64, days float64) error {
	for i := range r.store.allocations {
		if r.store.allocations[i].ID == allocationID {
			r.store.allocations[i].UsedDays += days
			return nil
		}
	}
	return leave.ErrAllocationNotFound
}

type memLeaveRepo struct{ store *memStore }

func (r *memLeaveRepo) Create(ctx context.Context, q database.Querier, request leave.Leave) (leave.Leave, error) {
	r.store.nextLeaveID++
	request.ID = r.store.nextLeaveID
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.store.leaves = append(r.store.leaves, request)
	return request, nil
}

func (r *memLeaveRepo) GetByID(ctx context.Context, q database.Querier, id int64) (leave.Leave, error) {
	for _, l := range r.store.leaves {
		if l.ID == id && l.DeletedAt == nil {
			return l, nil
		}
	}
	return leave.Leave{}, leave.ErrLeaveRequestNotFound
}

func (r *memLeaveRepo) FindOverlapping(ctx context.Context, q database.Querier, employeeID int64, startDate, endDate time.Time) ([]leave.Leave, error) {
	var overlapping []leave.Leave
	for _, l := range r.store.leaves {
		if l.EmployeeID != employeeID || l.DeletedAt != nil {
			continue
		}
		if l.Status == leave.LeaveStatusRejected || l.Status == leave.LeaveStatusCancelled {
			continue
		}
		if leave.RangesOverlap(l.StartDate, l.EndDate, startDate, endDate) {
			overlapping = append(overlapping, l)
		}
	}
	return overlapping, nil
}

func (r *memLeaveRepo) GetByEmployeeID(ctx context.Context, q database.Querier, employeeID int64, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	var requests []leave.Leave
	for _, l := range r.store.leaves {
		if l.EmployeeID == employeeID && l.DeletedAt == nil {
			requests = append(requests, l)
		}
	}
	return requests, int64(len(requests)), nil
}

func (r *memLeaveRepo) SoftDelete(ctx context.Context, q database.Querier, id int64, deletedBy string) error {
	for i := range r.store.leaves {
		if r.store.leaves[i].ID == id {
			now := time.Now()
			r.store.leaves[i].DeletedAt = &now
			return nil
		}
	}
	return leave.ErrLeaveRequestNotFound
}

type memApprovalRepo struct{ store *memStore }

func (r *memApprovalRepo) Create(ctx context.Context, q database.Querier, approval leave.LeaveApproval) (leave.LeaveApproval, error) {
	r.store.nextApprovalID++
	approval.ID = r.store.nextApprovalID
	r.store.approvals = append(r.store.approvals, approval)
	return approval, nil
}

func (r *memApprovalRepo) GetByLeaveID(ctx context.Context, q database.Querier, leaveID int64) ([]leave.LeaveApproval, error) {
	var approvals []leave.LeaveApproval
	for _, a := range r.store.approvals {
		if a.LeaveID == leaveID {
			approvals = append(approvals, a)
		}
	}
	return approvals, nil
}

type memLogRepo struct{ store *memStore }

func (r *memLogRepo) Create(ctx context.Context, q database.Querier, entry activitylog.Entry) (activitylog.Entry, error) {
	r.store.logMu.Lock()
	defer r.store.logMu.Unlock()
	entry.ID = int64(len(r.store.logs) + 1)
	r.store.logs = append(r.store.logs, entry)
	return entry, nil
}

// recordingAllocationRepo and recordingLeaveRepo note the order in which
// the service reads allocations and overlapping requests.
type recordingAllocationRepo struct {
	inner leave.LeaveAllocationRepository
	calls *[]string
}

func (r *recordingAllocationRepo) GetByEmployeeAndLeaveType(ctx context.Context, q database.Querier, employeeID, leaveTypeID int64) ([]leave.LeaveAllocation, error) {
	*r.calls = append(*r.calls, "allocations.GetByEmployeeAndLeaveType")
	return r.inner.GetByEmployeeAndLeaveType(ctx, q, employeeID, leaveTypeID)
}

func (r *recordingAllocationRepo) AddUsedDays(ctx context.Context, q database.Querier, allocationID int64, days float64) error {
	return r.inner.AddUsedDays(ctx, q, allocationID, days)
}

type recordingLeaveRepo struct {
	inner leave.LeaveRepository
	calls *[]string
}

func (r *recordingLeaveRepo) Create(ctx context.Context, q database.Querier, request leave.Leave) (leave.Leave, error) {
	return r.inner.Create(ctx, q, request)
}

func (r *recordingLeaveRepo) GetByID(ctx context.Context, q database.Querier, id int64) (leave.Leave, error) {
	return r.inner.GetByID(ctx, q, id)
}

func (r *recordingLeaveRepo) FindOverlapping(ctx context.Context, q database.Querier, employeeID int64, startDate, endDate time.Time) ([]leave.Leave, error) {
	*r.calls = append(*r.calls, "leaves.FindOverlapping")
	return r.inner.FindOverlapping(ctx, q, employeeID, startDate, endDate)
}

func (r *recordingLeaveRepo) GetByEmployeeID(ctx context.Context, q database.Querier, employeeID int64, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	return r.inner.GetByEmployeeID(ctx, q, employeeID, filter)
}

func (r *recordingLeaveRepo) SoftDelete(ctx context.Context, q database.Querier, id int64, deletedBy string) error {
	return r.inner.SoftDelete(ctx, q, id, deletedBy)
}

// ===== fixtures =====

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestStore seeds employee 123 (regular) with vacation type 1 requiring
// approval, a 25-day available allocation (25 allocated + 5 carry-over -
// 5 used) and a single-level policy with approver 456.
func newTestStore() *memStore {
	return &memStore{
		employees: map[int64]employee.Employee{
			123: {ID: 123, EmployeeType: "regular", FullName: "Juan Dela Cruz", IsActive: true},
		},
		leaveTypes: map[int64]leave.LeaveType{
			1: {ID: 1, Name: "Vacation Leave", Code: "VL", Category: leave.LeaveCategoryVacation, RequiresApproval: true, IsActive: true},
		},
		policies: []leave.LeavePolicy{
			{
				ID:            1,
				EmployeeType:  "regular",
				LeaveTypeID:   1,
				IsActive:      true,
				EffectiveDate: date(2024, 1, 1),
				ApprovalWorkflow: leave.ApprovalWorkflow{
					{Level: 1, ApproverType: leave.ApproverTypeSupervisor, ApproverID: 456, IsRequired: true},
				},
			},
		},
		allocations: []leave.LeaveAllocation{
			{
				ID: 1, EmployeeID: 123, LeaveTypeID: 1, CutoffYear: 2024,
				AllocatedDays: 25, UsedDays: 5, CarryOverDays: 5, ExpiredDays: 0,
				PeriodStatus:    leave.PeriodStatusActive,
				CutoffStartDate: date(2024, 1, 1), CutoffEndDate: date(2024, 12, 31),
			},
		},
	}
}

func newTestService(store *memStore) *RequestService {
	return NewRequestService(
		&database.DB{},
		&memTransactor{store: store},
		&memEmployeeRepo{store: store},
		&memLeaveTypeRepo{store: store},
		&memPolicyRepo{store: store},
		&memAllocationRepo{store: store},
		&memLeaveRepo{store: store},
		&memApprovalRepo{store: store},
		&memLogRepo{store: store},
	)
}

func validCommand() leave.CreateLeaveCommand {
	return leave.CreateLeaveCommand{
		EmployeeID:  123,
		LeaveTypeID: 1,
		StartDate:   date(2024, 6, 1),
		EndDate:     date(2024, 6, 5),
		Reason:      "family vacation",
		TotalDays:   5,
		CutoffYear:  2024,
	}
}

// ===== tests =====

func TestRequestService_Create_HappyPath(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)
	ctx := context.Background()

	meta := &leave.RequestMetadata{
		IPAddress: "127.0.0.1",
		UserAgent: "Mozilla/5.0",
		SessionID: "session-1",
		Username:  "jdelacruz",
	}

	created, err := service.Create(ctx, validCommand(), "actor-1", meta)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, leave.LeaveStatusPending, created.Status)
	assert.Equal(t, "actor-1", created.CreatedBy)
	assert.Equal(t, "actor-1", created.UpdatedBy)

	require.Len(t, store.approvals, 1)
	assert.Equal(t, created.ID, store.approvals[0].LeaveID)
	assert.Equal(t, int64(456), store.approvals[0].ApproverID)
	assert.Equal(t, 1, store.approvals[0].ApprovalLevel)
	assert.Equal(t, leave.ApprovalStatusPending, store.approvals[0].Status)

	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.True(t, log.IsSuccess)
	assert.Equal(t, 201, log.StatusCode)
	assert.Equal(t, activitylog.ActionCreateLeave, log.Action)
	assert.Equal(t, activitylog.EntityLeave, log.Entity)
	assert.Equal(t, "actor-1", log.UserID)
	require.NotNil(t, log.IPAddress)
	assert.Equal(t, "127.0.0.1", *log.IPAddress)

	// pending request reserves its days
	assert.Equal(t, 10.0, store.allocations[0].UsedDays)
}

func TestRequestService_Create_MultiLevelWorkflowOrder(t *testing.T) {
	store := newTestStore()
	// store the workflow out of order; creation must still ascend
	store.policies[0].ApprovalWorkflow = leave.ApprovalWorkflow{
		{Level: 3, ApproverType: leave.ApproverTypeHR, ApproverID: 999},
		{Level: 1, ApproverType: leave.ApproverTypeSupervisor, ApproverID: 456},
		{Level: 2, ApproverType: leave.ApproverTypeManager, ApproverID: 456},
	}
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)

	require.NoError(t, err)
	require.Len(t, store.approvals, 3)
	assert.Equal(t, 1, store.approvals[0].ApprovalLevel)
	assert.Equal(t, 2, store.approvals[1].ApprovalLevel)
	assert.Equal(t, 3, store.approvals[2].ApprovalLevel)
	// duplicate approver ids at different levels each get a row
	assert.Equal(t, int64(456), store.approvals[0].ApproverID)
	assert.Equal(t, int64(456), store.approvals[1].ApproverID)
}

func TestRequestService_Create_NoApprovalRequired(t *testing.T) {
	store := newTestStore()
	lt := store.leaveTypes[1]
	lt.RequiresApproval = false
	store.leaveTypes[1] = lt
	service := newTestService(store)

	created, err := service.Create(context.Background(), validCommand(), "actor-1", nil)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	// policy workflow exists but no approval rows are materialized
	assert.Empty(t, store.approvals)
}

func TestRequestService_Create_SingleDayLeaveAllowed(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	cmd := validCommand()
	cmd.StartDate = date(2024, 6, 3)
	cmd.EndDate = date(2024, 6, 3)
	cmd.TotalDays = 1

	created, err := service.Create(context.Background(), cmd, "actor-1", nil)

	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStatusPending, created.Status)
}

func TestRequestService_Create_EndBeforeStartRejected(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	cmd := validCommand()
	cmd.StartDate = date(2024, 6, 5)
	cmd.EndDate = date(2024, 6, 1)

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)

	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
	assert.Empty(t, store.leaves)
}

func TestRequestService_Create_NonPositiveTotalDays(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	cmd := validCommand()
	cmd.TotalDays = 0

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)
	assert.ErrorIs(t, err, leave.ErrInvalidTotalDays)
}

func TestRequestService_Create_OverlapRejected(t *testing.T) {
	store := newTestStore()
	store.leaves = append(store.leaves, leave.Leave{
		ID: 99, EmployeeID: 123, LeaveTypeID: 1,
		StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 5),
		Status: leave.LeaveStatusApproved,
	})
	store.nextLeaveID = 99
	service := newTestService(store)

	cmd := validCommand()
	cmd.StartDate = date(2024, 6, 3)
	cmd.EndDate = date(2024, 6, 7)

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestRequestService_Create_AdjacentLeaveAccepted(t *testing.T) {
	store := newTestStore()
	store.leaves = append(store.leaves, leave.Leave{
		ID: 99, EmployeeID: 123, LeaveTypeID: 1,
		StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 5),
		Status: leave.LeaveStatusApproved,
	})
	store.nextLeaveID = 99
	service := newTestService(store)

	cmd := validCommand()
	cmd.StartDate = date(2024, 6, 6)
	cmd.EndDate = date(2024, 6, 10)

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)
	assert.NoError(t, err)
}

func TestRequestService_Create_RejectedLeaveDoesNotBlock(t *testing.T) {
	store := newTestStore()
	store.leaves = append(store.leaves, leave.Leave{
		ID: 99, EmployeeID: 123, LeaveTypeID: 1,
		StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 5),
		Status: leave.LeaveStatusRejected,
	})
	store.nextLeaveID = 99
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	assert.NoError(t, err)
}

func TestRequestService_Create_ExactBalanceBoundary(t *testing.T) {
	store := newTestStore() // available = 25

	t.Run("exact balance succeeds", func(t *testing.T) {
		service := newTestService(store)
		cmd := validCommand()
		cmd.StartDate = date(2024, 7, 1)
		cmd.EndDate = date(2024, 7, 25)
		cmd.TotalDays = 25

		_, err := service.Create(context.Background(), cmd, "actor-1", nil)
		assert.NoError(t, err)
	})

	t.Run("one day over fails", func(t *testing.T) {
		fresh := newTestStore()
		service := newTestService(fresh)
		cmd := validCommand()
		cmd.StartDate = date(2024, 7, 1)
		cmd.EndDate = date(2024, 7, 26)
		cmd.TotalDays = 26

		_, err := service.Create(context.Background(), cmd, "actor-1", nil)
		assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	})
}

func TestRequestService_Create_InsufficientBalance(t *testing.T) {
	store := newTestStore()
	store.allocations[0] = leave.LeaveAllocation{
		ID: 1, EmployeeID: 123, LeaveTypeID: 1, CutoffYear: 2024,
		AllocatedDays: 3, PeriodStatus: leave.PeriodStatusActive,
	}
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
	assert.Empty(t, store.leaves)
	assert.Empty(t, store.approvals)
	assert.Equal(t, 0.0, store.allocations[0].UsedDays)
}

func TestRequestService_Create_MissingLeaveType(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	cmd := validCommand()
	cmd.LeaveTypeID = 42

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)

	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
	assert.Empty(t, store.leaves)
	assert.Empty(t, store.approvals)

	// the failure still leaves an audit trail
	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.False(t, log.IsSuccess)
	assert.Equal(t, 500, log.StatusCode)
	require.NotNil(t, log.ErrorMessage)
	assert.Contains(t, *log.ErrorMessage, leave.ErrLeaveTypeNotFound.Error())
	assert.Contains(t, log.Details, "leaveTypeId")
}

func TestRequestService_Create_MissingEmployee(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	cmd := validCommand()
	cmd.EmployeeID = 777

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestRequestService_Create_MissingAllocation(t *testing.T) {
	store := newTestStore()
	store.allocations = nil
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	assert.ErrorIs(t, err, leave.ErrAllocationNotFound)
}

func TestRequestService_Create_NoPolicyStillSucceeds(t *testing.T) {
	store := newTestStore()
	store.policies = nil
	service := newTestService(store)

	created, err := service.Create(context.Background(), validCommand(), "actor-1", nil)

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Empty(t, store.approvals)
}

func TestRequestService_Create_PolicyMaxDaysPerRequest(t *testing.T) {
	store := newTestStore()
	store.policies[0].MaxDaysPerRequest = 3
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	assert.ErrorIs(t, err, leave.ErrExceedsMaxDaysPerRequest)
}

func TestRequestService_Create_PolicyBlackoutPeriod(t *testing.T) {
	store := newTestStore()
	store.policies[0].BlackoutPeriods = leave.BlackoutPeriods{
		{Name: "mid-year closing", StartDate: date(2024, 6, 4), EndDate: date(2024, 6, 10)},
	}
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	assert.ErrorIs(t, err, leave.ErrBlackoutPeriod)
}

func TestRequestService_Create_PolicyMinimumNotice(t *testing.T) {
	store := newTestStore()
	store.policies[0].MinimumNoticeHours = 72
	// keep the allocation period irrelevant; only notice matters here
	service := newTestService(store)

	cmd := validCommand()
	cmd.StartDate = time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	cmd.EndDate = cmd.StartDate.AddDate(0, 0, 2)

	_, err := service.Create(context.Background(), cmd, "actor-1", nil)
	assert.ErrorIs(t, err, leave.ErrInsufficientNotice)
}

func TestRequestService_Create_NilMetadataLogsNullFields(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)

	require.NoError(t, err)
	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.Nil(t, log.IPAddress)
	assert.Nil(t, log.UserAgent)
	assert.Nil(t, log.SessionID)
	assert.Nil(t, log.Username)
}

func TestRequestService_Create_OverlapReadAfterAllocationLock(t *testing.T) {
	store := newTestStore()
	var calls []string

	service := NewRequestService(
		&database.DB{},
		&memTransactor{store: store},
		&memEmployeeRepo{store: store},
		&memLeaveTypeRepo{store: store},
		&memPolicyRepo{store: store},
		&recordingAllocationRepo{inner: &memAllocationRepo{store: store}, calls: &calls},
		&recordingLeaveRepo{inner: &memLeaveRepo{store: store}, calls: &calls},
		&memApprovalRepo{store: store},
		&memLogRepo{store: store},
	)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	require.NoError(t, err)

	// The allocation read is the serialization point between concurrent
	// creates (the real repository locks the rows for update). An overlap
	// read issued before it can miss a request committed while this
	// transaction waited on the lock, so it must come after.
	allocIdx := slices.Index(calls, "allocations.GetByEmployeeAndLeaveType")
	overlapIdx := slices.Index(calls, "leaves.FindOverlapping")
	require.NotEqual(t, -1, allocIdx)
	require.NotEqual(t, -1, overlapIdx)
	assert.Less(t, allocIdx, overlapIdx)
}

func TestRequestService_Create_PolicyMaxConsecutiveDays(t *testing.T) {
	t.Run("span over the limit fails", func(t *testing.T) {
		store := newTestStore()
		store.policies[0].MaxConsecutiveDays = 3
		service := newTestService(store)

		// validCommand spans 5 calendar days
		_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
		assert.ErrorIs(t, err, leave.ErrExceedsMaxConsecutiveDays)
		assert.Empty(t, store.leaves)
	})

	t.Run("span equal to the limit passes", func(t *testing.T) {
		store := newTestStore()
		store.policies[0].MaxConsecutiveDays = 5
		service := newTestService(store)

		_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
		assert.NoError(t, err)
	})
}

func TestAllocationRepo_RepeatedReadsEqual(t *testing.T) {
	store := newTestStore()
	repo := &memAllocationRepo{store: store}
	ctx := context.Background()

	first, err := repo.GetByEmployeeAndLeaveType(ctx, nil, 123, 1)
	require.NoError(t, err)
	second, err := repo.GetByEmployeeAndLeaveType(ctx, nil, 123, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRequestService_Create_ConcurrentDoubleSpend(t *testing.T) {
	store := newTestStore()
	// exactly one request's worth of balance
	store.allocations[0] = leave.LeaveAllocation{
		ID: 1, EmployeeID: 123, LeaveTypeID: 1, CutoffYear: 2024,
		AllocatedDays: 5, PeriodStatus: leave.PeriodStatusActive,
	}
	service := newTestService(store)

	first := validCommand()
	second := validCommand()
	// non-overlapping ranges so only the balance check can reject
	second.StartDate = date(2024, 7, 1)
	second.EndDate = date(2024, 7, 5)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, cmd := range []leave.CreateLeaveCommand{first, second} {
		wg.Add(1)
		go func(c leave.CreateLeaveCommand) {
			defer wg.Done()
			_, err := service.Create(context.Background(), c, "actor-1", nil)
			errs <- err
		}(cmd)
	}
	wg.Wait()
	close(errs)

	var successes, failures int
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
			failures++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 5.0, store.allocations[0].UsedDays)
	assert.Len(t, store.leaves, 1)
}

func TestRequestService_Create_FailureRollsBackBusinessWrites(t *testing.T) {
	store := newTestStore()
	// policy cap triggers the failure after the balance check passes
	store.policies[0].MaxDaysPerRequest = 3
	service := newTestService(store)

	_, err := service.Create(context.Background(), validCommand(), "actor-1", nil)

	require.Error(t, err)
	assert.Empty(t, store.leaves)
	assert.Empty(t, store.approvals)
	assert.Equal(t, 5.0, store.allocations[0].UsedDays)
	// audit entry written outside the rolled-back transaction
	require.Len(t, store.logs, 1)
	assert.False(t, store.logs[0].IsSuccess)
}

func TestRequestService_GetByID(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	created, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	require.NoError(t, err)

	request, approvals, err := service.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, request.ID)
	require.Len(t, approvals, 1)
	assert.Equal(t, int64(456), approvals[0].ApproverID)
}

func TestRequestService_Delete(t *testing.T) {
	store := newTestStore()
	service := newTestService(store)

	created, err := service.Create(context.Background(), validCommand(), "actor-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 10.0, store.allocations[0].UsedDays)

	require.NoError(t, service.Delete(context.Background(), created.ID, "actor-1"))

	_, _, err = service.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	// deleting a pending request gives back its reserved days
	assert.Equal(t, 5.0, store.allocations[0].UsedDays)

	// and no longer blocks the same dates
	_, err = service.Create(context.Background(), validCommand(), "actor-1", nil)
	assert.NoError(t, err)
	assert.Equal(t, 10.0, store.allocations[0].UsedDays)
}

func TestRequestService_Delete_ApprovedKeepsBalance(t *testing.T) {
	store := newTestStore()
	store.leaves = append(store.leaves, leave.Leave{
		ID: 99, EmployeeID: 123, LeaveTypeID: 1, CutoffYear: 2024,
		StartDate: date(2024, 6, 1), EndDate: date(2024, 6, 5), TotalDays: 5,
		Status: leave.LeaveStatusApproved,
	})
	store.nextLeaveID = 99
	service := newTestService(store)

	require.NoError(t, service.Delete(context.Background(), 99, "actor-1"))

	// approved requests consumed their days; deletion does not refund them
	assert.Equal(t, 5.0, store.allocations[0].UsedDays)
}

func TestRequestService_Delete_NotFound(t *testing.T) {
	service := newTestService(newTestStore())

	err := service.Delete(context.Background(), 404, "actor-1")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestRequestService_GetByID_NotFound(t *testing.T) {
	service := newTestService(newTestStore())

	_, _, err := service.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
