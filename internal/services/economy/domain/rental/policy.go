package rental

import "time"

// Policy evaluates the rent-scheduling rules that bound tenant prepayment.
// It is stateless so the prepayment cap stays independently testable and
// reusable by renewal-legality checks.
type Policy struct{}

// AllowsPayment reports whether a rent payment may be accepted today. A
// payment is legal only while the next due date has not moved past today:
// once an agreement is paid one month ahead, further payment is refused
// until the due date catches up.
func (Policy) AllowsPayment(today, nextDue time.Time) bool {
	return !dateOnly(nextDue).After(dateOnly(today))
}

// NextDueAfterPayment returns the due date advanced by exactly one
// calendar month. Due dates only ever move forward.
func (Policy) NextDueAfterPayment(current time.Time) time.Time {
	return current.AddDate(0, 1, 0)
}

// MonthsInArrears reports how many whole calendar months the due date lies
// behind today. A current or prepaid agreement reports zero.
func (Policy) MonthsInArrears(today, nextDue time.Time) int {
	months := 0
	cursor := dateOnly(nextDue)
	limit := dateOnly(today)
	for cursor.AddDate(0, 1, 0).Compare(limit) <= 0 {
		cursor = cursor.AddDate(0, 1, 0)
		months++
	}
	return months
}

// dateOnly truncates to a UTC calendar date so scheduling comparisons are
// whole-day, never time-of-day sensitive.
func dateOnly(value time.Time) time.Time {
	utc := value.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
