package leave

import (
	"sort"
	"time"
)

// AvailableBalance sums available days across allocation rows. The result
// may be negative when an employee is over-allocated; callers decide what
// to do with that, it is never clamped here.
func AvailableBalance(allocations []LeaveAllocation) float64 {
	var balance float64
	for _, a := range allocations {
		balance += a.AvailableDays()
	}
	return balance
}

// EffectivePolicy picks the single policy that governs a request when the
// repository returns more than one version for an employee-type/leave-type
// pair: newest effective date first, then the first active one. When no
// version is active the newest wins. Returns false only for an empty slice.
func EffectivePolicy(policies []LeavePolicy) (LeavePolicy, bool) {
	if len(policies) == 0 {
		return LeavePolicy{}, false
	}

	sorted := make([]LeavePolicy, len(policies))
	copy(sorted, policies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.After(sorted[j].EffectiveDate)
	})

	for _, p := range sorted {
		if p.IsActive {
			return p, true
		}
	}
	return sorted[0], true
}

// AllocationForCutoff picks the allocation row that a new request's days
// are reserved against: the active row for the requested cutoff year,
// else any row for that year, else the newest active row, else the first.
func AllocationForCutoff(allocations []LeaveAllocation, cutoffYear int) LeaveAllocation {
	var yearMatch *LeaveAllocation
	for i := range allocations {
		if allocations[i].CutoffYear != cutoffYear {
			continue
		}
		if allocations[i].PeriodStatus == PeriodStatusActive {
			return allocations[i]
		}
		if yearMatch == nil {
			yearMatch = &allocations[i]
		}
	}
	if yearMatch != nil {
		return *yearMatch
	}

	var newestActive *LeaveAllocation
	for i := range allocations {
		if allocations[i].PeriodStatus != PeriodStatusActive {
			continue
		}
		if newestActive == nil || allocations[i].CutoffYear > newestActive.CutoffYear {
			newestActive = &allocations[i]
		}
	}
	if newestActive != nil {
		return *newestActive
	}
	return allocations[0]
}

// RangesOverlap reports whether two inclusive date ranges share any day.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// BlackoutFor returns the first blackout period of the policy that the
// requested range touches.
func (p LeavePolicy) BlackoutFor(startDate, endDate time.Time) (BlackoutPeriod, bool) {
	for _, bp := range p.BlackoutPeriods {
		if RangesOverlap(startDate, endDate, bp.StartDate, bp.EndDate) {
			return bp, true
		}
	}
	return BlackoutPeriod{}, false
}
