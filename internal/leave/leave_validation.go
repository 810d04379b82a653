package leave

import (
	"time"
	"unicode/utf8"

	leaveerrors "lms/internal/leave/errors"
)

const (
	TypeSick      = "sick"
	TypeVacation  = "vacation"
	TypePersonal  = "personal"
	TypeEmergency = "emergency"
	TypeOther     = "other"

	UnitDays  = "days"
	UnitHours = "hours"

	minReasonChars         = 10
	minRejectedReasonChars = 5
)

var leaveTypes = map[string]struct{}{
	TypeSick:      {},
	TypeVacation:  {},
	TypePersonal:  {},
	TypeEmergency: {},
	TypeOther:     {},
}

func ValidLeaveType(t string) bool {
	_, ok := leaveTypes[t]
	return ok
}

func ValidDurationUnit(u string) bool {
	return u == UnitDays || u == UnitHours
}

// truncateToDay drops the time-of-day component; all date comparisons happen
// at day granularity.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateDateRange enforces the two date invariants: the range must be
// non-empty (end strictly after start) and may not begin before today.
func ValidateDateRange(start, end, today time.Time) error {
	start = truncateToDay(start)
	end = truncateToDay(end)
	today = truncateToDay(today)

	if !end.After(start) {
		return leaveerrors.ErrEndNotAfterStart
	}
	if start.Before(today) {
		return leaveerrors.ErrStartInPast
	}
	return nil
}

// ComputeDuration derives the stored duration; clients never supply it.
// Days are counted inclusive of both endpoints. Hours are the elapsed whole
// days times 24 plus the remaining whole hours - the two formulas deliberately
// differ in rounding philosophy and both are preserved as-is.
func ComputeDuration(start, end time.Time, unit string) float64 {
	span := end.Sub(start)
	days := int(span / (24 * time.Hour))

	if unit == UnitHours {
		hours := int((span % (24 * time.Hour)) / time.Hour)
		return float64(days*24 + hours)
	}

	return float64(days + 1)
}

// ValidateReason checks the minimum length of a trimmed, unescaped reason.
func ValidateReason(reason string) error {
	if utf8.RuneCountInString(reason) < minReasonChars {
		return leaveerrors.ErrReasonTooShort
	}
	return nil
}

// ValidateRejectedReason applies the shorter minimum used for rejections.
func ValidateRejectedReason(reason string) error {
	if utf8.RuneCountInString(reason) < minRejectedReasonChars {
		return leaveerrors.ErrRejectedReasonTooShort
	}
	return nil
}
