package leaveregister_test

import (
	"testing"
	"time"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister"

	"github.com/stretchr/testify/assert"
)

func TestAccrualPolicy_Accruals(t *testing.T) {
	t.Run("upfront grants everything on january first", func(t *testing.T) {
		p := leaveregister.AccrualPolicy{LeaveType: "SL", DaysPerYear: 6, Frequency: leaveregister.FreqUpfront}

		grants := p.Accruals(2026)

		assert.Len(t, grants, 1)
		assert.Equal(t, 6.0, grants[0].Days)
		assert.Equal(t, time.January, grants[0].At.Month())
		assert.Equal(t, 1, grants[0].At.Day())
	})

	t.Run("monthly grants sum to the yearly entitlement", func(t *testing.T) {
		p := leaveregister.AccrualPolicy{LeaveType: "CL", DaysPerYear: 12, Frequency: leaveregister.FreqMonthly}

		grants := p.Accruals(2026)

		assert.Len(t, grants, 12)
		var total float64
		for _, g := range grants {
			total += g.Days
		}
		assert.Equal(t, 12.0, total)
		assert.Equal(t, 1.0, grants[0].Days)
	})

	t.Run("rounding remainder lands in december", func(t *testing.T) {
		p := leaveregister.AccrualPolicy{LeaveType: "EL", DaysPerYear: 15, Frequency: leaveregister.FreqMonthly}

		grants := p.Accruals(2026)

		var total float64
		for _, g := range grants {
			total += g.Days
		}
		assert.Equal(t, 15.0, total)
		// 15/12 floors to 1.0 per month, so December carries the remainder.
		assert.Equal(t, 1.0, grants[0].Days)
		assert.Equal(t, 4.0, grants[11].Days)
	})
}

func TestAccrualPolicy_AccruedAsOf(t *testing.T) {
	t.Run("upfront is fully accrued from day one", func(t *testing.T) {
		p := leaveregister.AccrualPolicy{LeaveType: "SL", DaysPerYear: 6, Frequency: leaveregister.FreqUpfront}

		at := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.Local)
		assert.Equal(t, 6.0, p.AccruedAsOf(at))
	})

	t.Run("monthly accrues month by month", func(t *testing.T) {
		p := leaveregister.AccrualPolicy{LeaveType: "CL", DaysPerYear: 12, Frequency: leaveregister.FreqMonthly}

		march := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.Local)
		assert.Equal(t, 3.0, p.AccruedAsOf(march))

		december := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.Local)
		assert.Equal(t, 12.0, p.AccruedAsOf(december))
	})
}
