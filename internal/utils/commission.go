package utils

import (
	"fmt"
	"math"
	"time"
)

// CommissionBreakdown splits an original reservation amount into the
// platform's cut and the net amount payable to the hotel.
type CommissionBreakdown struct {
	Commission       int64
	SettlementAmount int64
}

// ComputeCommission calculates the platform commission on originalAmount at
// rate percent, rounding to the nearest whole VND. A zero or negative amount
// yields zero for both parts.
func ComputeCommission(originalAmount int64, rate float64) CommissionBreakdown {
	if originalAmount <= 0 {
		return CommissionBreakdown{}
	}

	commission := int64(math.Round(float64(originalAmount) * rate / 100))
	return CommissionBreakdown{
		Commission:       commission,
		SettlementAmount: originalAmount - commission,
	}
}

// DateLayout is the wire format for all date-only fields.
const DateLayout = "2006-01-02"

// ParseDate converts a yyyy-mm-dd formatted string into a UTC midnight time
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd: %v", err)
	}
	return t, nil
}

// TruncateToDay normalizes a timestamp to UTC midnight so interval math works
// at date-only precision.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back stays do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
