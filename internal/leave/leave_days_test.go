package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumberOfDays(t *testing.T) {
	t.Run("counts inclusive calendar days", func(t *testing.T) {
		from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, 3.0, numberOfDays(from, to, false))
		assert.Equal(t, 1.0, numberOfDays(from, from, false))
	})

	t.Run("half day is always 0.5", func(t *testing.T) {
		d := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, 0.5, numberOfDays(d, d, true))
	})

	t.Run("spans a spring-forward transition without losing a day", func(t *testing.T) {
		// March 10 2024 is only 23 hours long in this zone.
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skip("tzdata unavailable")
		}
		from := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
		to := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)

		assert.Equal(t, 3.0, numberOfDays(from, to, false))
	})
}
