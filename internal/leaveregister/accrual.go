package leaveregister

import (
	"math"
	"time"
)

type AccrualFrequency string

const (
	FreqUpfront AccrualFrequency = "upfront"
	FreqMonthly AccrualFrequency = "monthly"
)

// AccrualPolicy describes how one leave type accumulates over a year.
type AccrualPolicy struct {
	LeaveType   string
	DaysPerYear float64
	Frequency   AccrualFrequency
}

// Grant is a single accrual occurrence.
type Grant struct {
	At   time.Time
	Days float64
}

// Accruals expands a policy into its grant schedule for a year. Upfront
// policies grant the full entitlement on January 1st; monthly policies
// spread it evenly across the first of each month, with any rounding
// remainder landing in December so the yearly total is exact.
func (p AccrualPolicy) Accruals(year int) []Grant {
	switch p.Frequency {
	case FreqMonthly:
		perMonth := floorHalf(p.DaysPerYear / 12)
		grants := make([]Grant, 0, 12)
		var granted float64
		for m := time.January; m <= time.December; m++ {
			days := perMonth
			if m == time.December {
				days = p.DaysPerYear - granted
			}
			grants = append(grants, Grant{
				At:   time.Date(year, m, 1, 0, 0, 0, 0, time.Local),
				Days: days,
			})
			granted += days
		}
		return grants
	default:
		return []Grant{{
			At:   time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local),
			Days: p.DaysPerYear,
		}}
	}
}

// AccruedAsOf sums the grants that have occurred on or before the given day.
func (p AccrualPolicy) AccruedAsOf(at time.Time) float64 {
	var total float64
	for _, g := range p.Accruals(at.Year()) {
		if !g.At.After(at) {
			total += g.Days
		}
	}
	return total
}

// floorHalf rounds down to a 0.5 day step, the smallest leave unit.
func floorHalf(v float64) float64 {
	return math.Floor(v*2) / 2
}
