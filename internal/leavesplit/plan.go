package leavesplit

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// halfDesignator distinguishes the two halves of a day from a full day so
// that first_half and second_half splits on the same date can coexist.
func halfDesignator(s Split) string {
	if !s.IsHalfDay {
		return "full"
	}
	if s.HalfDayType != nil && *s.HalfDayType != "" {
		return *s.HalfDayType
	}
	return HalfDayFirst
}

// ClampToRange keeps only candidates inside the application's approved date
// range, collapses duplicate (date, half) keys to the first occurrence, and
// returns the survivors normalized and sorted ascending by date. Out-of-range
// and duplicate rows are tolerated rather than rejected; legacy records are
// known to carry both. Dropped rows are reported so callers can log them.
func ClampToRange(app Application, candidates []Split) ([]Split, []Dropped) {
	start, err := ParseDateOnly(app.FromDate)
	if err != nil {
		return nil, dropAll(candidates, DropBadDate)
	}
	end, err := ParseDateOnly(app.ToDate)
	if err != nil {
		return nil, dropAll(candidates, DropBadDate)
	}

	type keyed struct {
		split Split
		at    time.Time
	}

	seen := make(map[string]struct{}, len(candidates))
	kept := make([]keyed, 0, len(candidates))
	var dropped []Dropped

	for _, c := range candidates {
		at, err := ParseDateOnly(c.Date)
		if err != nil {
			dropped = append(dropped, Dropped{Split: c, Reason: DropBadDate})
			continue
		}
		if at.Before(start) || at.After(end) {
			dropped = append(dropped, Dropped{Split: c, Reason: DropOutOfRange})
			continue
		}

		key := ToISODate(at) + "_" + halfDesignator(c)
		if _, dup := seen[key]; dup {
			dropped = append(dropped, Dropped{Split: c, Reason: DropDuplicate})
			continue
		}
		seen[key] = struct{}{}

		kept = append(kept, keyed{split: normalize(c, at), at: at})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].at.Before(kept[j].at)
	})

	out := make([]Split, len(kept))
	for i, k := range kept {
		out[i] = k.split
	}
	return out, dropped
}

// normalize canonicalizes one kept row: ISO date, derived day count, and a
// half-day type that is nil exactly when the row is a full day.
func normalize(s Split, at time.Time) Split {
	s.Date = ToISODate(at)
	s.NumberOfDays = days(s.IsHalfDay)
	if !s.IsHalfDay {
		s.HalfDayType = nil
	} else if s.HalfDayType == nil || *s.HalfDayType == "" {
		s.HalfDayType = strptr(HalfDayFirst)
	}
	return s
}

func dropAll(candidates []Split, reason string) []Dropped {
	dropped := make([]Dropped, len(candidates))
	for i, c := range candidates {
		dropped[i] = Dropped{Split: c, Reason: reason}
	}
	return dropped
}

// BuildDateRange produces the default one-row-per-day plan for an approved
// range. A single-day range marked half-day yields one half-day row; every
// other shape is full days.
func BuildDateRange(fromDate, toDate string, isHalfDay bool, halfDayType string) ([]Split, error) {
	start, err := ParseDateOnly(fromDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDateOnly(toDate)
	if err != nil {
		return nil, err
	}

	var splits []Split
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		splits = append(splits, Split{
			Date:         ToISODate(d),
			IsHalfDay:    false,
			HalfDayType:  nil,
			NumberOfDays: 1,
		})
	}

	if len(splits) == 1 && isHalfDay {
		ht := halfDayType
		if ht == "" {
			ht = HalfDayFirst
		}
		splits[0].IsHalfDay = true
		splits[0].HalfDayType = strptr(ht)
		splits[0].NumberOfDays = 0.5
	}

	return splits, nil
}

// BuildInitialSplits synthesizes the draft plan shown when a leave detail
// view opens: persisted splits clamped to the range when they exist,
// otherwise the default expansion stamped with the application's leave type
// and an approved status. Idempotent for an unchanged application.
func BuildInitialSplits(app Application) ([]Split, error) {
	if len(app.Splits) > 0 {
		mapped := make([]Split, len(app.Splits))
		for i, s := range app.Splits {
			if s.NumberOfDays == 0 {
				s.NumberOfDays = days(s.IsHalfDay)
			}
			mapped[i] = s
		}
		kept, dropped := ClampToRange(app, mapped)
		for _, d := range dropped {
			zap.L().Named("leavesplit").Warn("persisted split dropped during reconciliation",
				zap.String("date", d.Split.Date),
				zap.String("reason", d.Reason),
			)
		}
		return kept, nil
	}

	splits, err := BuildDateRange(app.FromDate, app.ToDate, app.IsHalfDay, app.HalfDayType)
	if err != nil {
		return nil, err
	}
	for i := range splits {
		splits[i].LeaveType = app.LeaveType
		splits[i].Status = StatusApproved
	}
	return splits, nil
}

// UpdateDraft returns a copy of the draft with changes merged into the row
// at index. NumberOfDays is always recomputed after the merge, and turning
// half-day off clears any stale half-day type. Nothing is revalidated here;
// duplicate keys or out-of-range dates introduced by edits are caught at
// submit time.
func UpdateDraft(draft []Split, index int, changes Changes) []Split {
	if index < 0 || index >= len(draft) {
		return draft
	}

	out := make([]Split, len(draft))
	copy(out, draft)

	row := out[index]
	if changes.LeaveType != nil {
		row.LeaveType = *changes.LeaveType
	}
	if changes.LeaveNature != nil {
		row.LeaveNature = *changes.LeaveNature
	}
	if changes.IsHalfDay != nil {
		row.IsHalfDay = *changes.IsHalfDay
	}
	if changes.HalfDayType != nil {
		row.HalfDayType = changes.HalfDayType
	}
	if changes.Status != nil {
		row.Status = *changes.Status
	}
	if changes.Notes != nil {
		row.Notes = *changes.Notes
	}

	row.NumberOfDays = days(row.IsHalfDay)
	if !row.IsHalfDay {
		row.HalfDayType = nil
	} else if row.HalfDayType == nil || *row.HalfDayType == "" {
		row.HalfDayType = strptr(HalfDayFirst)
	}

	out[index] = row
	return out
}
