package usecase

import (
	"fmt"
	"time"

	"github.com/vitos/ust_basket/internal/domain"
)

// quarterCodes maps each calendar month to the futures month code of its quarter.
var quarterCodes = map[time.Month]string{
	time.January: "H", time.February: "H", time.March: "H",
	time.April: "M", time.May: "M", time.June: "M",
	time.July: "U", time.August: "U", time.September: "U",
	time.October: "Z", time.November: "Z", time.December: "Z",
}

// civilDate drops the clock and zone, keeping the calendar date in UTC.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DeliveryWindowFor returns the first and last days of the delivery month
// (March, June, September or December) for the contract cycle containing ref.
func DeliveryWindowFor(ref time.Time) domain.DeliveryWindow {
	month := ref.Month()
	switch int(month) % 3 {
	case 1: // Jan, Apr, Jul, Oct
		month += 2
	case 2: // Feb, May, Aug, Nov
		month++
	}
	// time.Date normalises month 13 into January of the next year.
	first := time.Date(ref.Year(), month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(first.Year(), first.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return domain.DeliveryWindow{FirstDay: first, LastDay: last}
}

// ContractAbbreviation builds the ticker, e.g. ("TU", 2026-10-15) -> "TUZ6".
func ContractAbbreviation(prefix string, ref time.Time) string {
	return fmt.Sprintf("%s%s%d", prefix, quarterCodes[ref.Month()], ref.Year()%10)
}

// Expiration is a selectable delivery cycle.
type Expiration struct {
	Value string // YYYY-MM of the delivery month
	Label string // e.g. "Dec 2026"
	Code  string // month code + year digit, e.g. "Z6"
}

// UpcomingExpirations lists the next n quarterly delivery months starting
// with the front cycle for ref.
func UpcomingExpirations(ref time.Time, n int) []Expiration {
	first := DeliveryWindowFor(ref).FirstDay
	out := make([]Expiration, 0, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, 3*i, 0)
		out = append(out, Expiration{
			Value: m.Format("2006-01"),
			Label: m.Format("Jan 2006"),
			Code:  ContractAbbreviation("", m),
		})
	}
	return out
}

// ParseExpiration parses a YYYY-MM expiration. Empty input yields the zero
// time, which callers treat as "front contract".
func ParseExpiration(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiration %q: %w", s, err)
	}
	return t, nil
}
