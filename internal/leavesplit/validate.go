package leavesplit

import "fmt"

// ValidationResult mirrors what the split validation endpoint returns:
// errors block saving, warnings do not.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateSplits checks a submitted split set against its application before
// it replaces the persisted plan. Unlike ClampToRange this is strict: the
// submitted set is user-authored, so out-of-range dates and duplicates are
// errors here, not hygiene drops.
func ValidateSplits(app Application, splits []Split) ValidationResult {
	res := ValidationResult{Errors: []string{}, Warnings: []string{}}

	if len(splits) == 0 {
		res.Errors = append(res.Errors, "at least one split is required")
		res.IsValid = false
		return res
	}

	start, err := ParseDateOnly(app.FromDate)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("application from_date is invalid: %s", app.FromDate))
	}
	end, err := ParseDateOnly(app.ToDate)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("application to_date is invalid: %s", app.ToDate))
	}
	if len(res.Errors) > 0 {
		res.IsValid = false
		return res
	}

	covered := make(map[string]struct{})
	seen := make(map[string]struct{}, len(splits))
	for i, s := range splits {
		at, err := ParseDateOnly(s.Date)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("split %d: invalid date %q", i+1, s.Date))
			continue
		}
		iso := ToISODate(at)

		if at.Before(start) || at.After(end) {
			res.Errors = append(res.Errors, fmt.Sprintf("split %d: date %s is outside the application range", i+1, iso))
		}

		key := iso + "_" + halfDesignator(s)
		if _, dup := seen[key]; dup {
			res.Errors = append(res.Errors, fmt.Sprintf("split %d: duplicate entry for %s", i+1, iso))
		}
		seen[key] = struct{}{}
		covered[iso] = struct{}{}

		switch s.Status {
		case StatusApproved, StatusRejected:
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("split %d: invalid status %q", i+1, s.Status))
		}

		if s.IsHalfDay {
			if s.HalfDayType == nil || (*s.HalfDayType != HalfDayFirst && *s.HalfDayType != HalfDaySecond) {
				res.Errors = append(res.Errors, fmt.Sprintf("split %d: half day rows need a valid half_day_type", i+1))
			}
		}

		if s.LeaveType == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("split %d: leave_type is required", i+1))
		}

		switch s.LeaveNature {
		case "", NaturePaid, NatureLOP, NatureWithoutPay:
		default:
			res.Errors = append(res.Errors, fmt.Sprintf("split %d: invalid leave_nature %q", i+1, s.LeaveNature))
		}

		if s.Status == StatusRejected && s.Notes == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("split %d: rejected day %s has no notes", i+1, iso))
		}
		if s.Status == StatusApproved && (s.LeaveNature == NatureLOP || s.LeaveNature == NatureWithoutPay) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("split %d: %s will not consume leave balance (%s)", i+1, iso, s.LeaveNature))
		}
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := covered[ToISODate(d)]; !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("day %s has no split entry", ToISODate(d)))
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// ConsumedDays sums the balance-consuming day count of a split set: approved
// rows only, half days as 0.5, LOP and without-pay days excluded.
func ConsumedDays(splits []Split) float64 {
	var total float64
	for _, s := range splits {
		if s.Status != StatusApproved {
			continue
		}
		if s.LeaveNature == NatureLOP || s.LeaveNature == NatureWithoutPay {
			continue
		}
		total += days(s.IsHalfDay)
	}
	return total
}
