package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/vitos/ust_basket/internal/domain"
)

const (
	// DaysPerYear approximates a year for remaining-term tests. This is not an
	// actual/actual day count; results within a couple of days of a threshold
	// are flagged as edge cases instead.
	DaysPerYear = 365.25
	// EdgeTolerance is the distance in years (about two days) from a
	// threshold inside which an entry is marked as an edge case.
	EdgeTolerance = 0.005
)

// BasketFilter selects the deliverable securities for a contract.
type BasketFilter struct{}

func NewBasketFilter() *BasketFilter {
	return &BasketFilter{}
}

// Filter walks records in source order and returns the eligible, de-duplicated
// entries along with warnings for records that had to be skipped as malformed.
// Time to maturity is measured from today.
func (f *BasketFilter) Filter(records []domain.SecurityRecord, window domain.DeliveryWindow, spec domain.ContractSpec, today time.Time) ([]domain.BasketEntry, []string) {
	entries := make([]domain.BasketEntry, 0)
	var warnings []string
	seen := make(map[string]bool)
	maxTerm := spec.MaxTermYears()
	today = civilDate(today)

	for i, rec := range records {
		if rec.DecodeError != "" {
			warnings = append(warnings, fmt.Sprintf("record %d: %s", i, rec.DecodeError))
			continue
		}
		if rec.Term == "" {
			warnings = append(warnings, fmt.Sprintf("record %d (%s): missing term", i, rec.CUSIP))
			continue
		}
		if _, ok := spec.EligibleTerms[rec.Term]; !ok {
			continue
		}
		if rec.CUSIP == "" {
			warnings = append(warnings, fmt.Sprintf("record %d: missing cusip", i))
			continue
		}
		maturity, err := parseDate(rec.MaturityDate)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: maturity date: %v", rec.CUSIP, err))
			continue
		}

		fromFirst := yearsBetween(window.FirstDay, maturity)
		fromLast := yearsBetween(window.LastDay, maturity)
		if fromFirst < spec.MinRemainingYears || fromLast > spec.MaxYearsFromLastDay {
			continue
		}

		edge := math.Abs(fromFirst-spec.MinRemainingYears) <= EdgeTolerance
		if fromLast <= maxTerm {
			for _, years := range spec.EligibleTerms {
				if math.Abs(fromLast-years) <= EdgeTolerance {
					edge = true
				}
			}
		}

		// When-issued notes and reopenings carry no coupon yet.
		if rec.InterestRate == "" {
			continue
		}
		if seen[rec.CUSIP] {
			continue
		}

		entry, err := newBasketEntry(rec, maturity, today, edge)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", rec.CUSIP, err))
			continue
		}
		seen[rec.CUSIP] = true
		entries = append(entries, entry)
	}
	return entries, warnings
}

func newBasketEntry(rec domain.SecurityRecord, maturity, today time.Time, edge bool) (domain.BasketEntry, error) {
	coupon, err := domain.FlexString(rec.InterestRate).Float()
	if err != nil {
		return domain.BasketEntry{}, fmt.Errorf("interest rate %q: %w", rec.InterestRate, err)
	}
	lowYield, err := rec.LowYield.Float()
	if err != nil {
		return domain.BasketEntry{}, fmt.Errorf("low yield %q: %w", rec.LowYield, err)
	}
	if len(rec.IssueDate) < 10 {
		return domain.BasketEntry{}, fmt.Errorf("issue date %q too short", rec.IssueDate)
	}

	matDate := maturity.Format("2006-01-02")
	if edge {
		matDate += domain.EdgeCaseMarker
	}
	return domain.BasketEntry{
		MaturityDate:   matDate,
		CouponRate:     coupon,
		CouponsPerYear: domain.CouponsPerYear,
		TimeToMaturity: fmt.Sprintf("%.2f", yearsBetween(today, maturity)),
		CUSIP:          rec.CUSIP,
		IssueDate:      rec.IssueDate[:10],
		LowYield:       fmt.Sprintf("%.2f", lowYield),
		EdgeCase:       edge,
	}, nil
}

// parseDate reads the leading YYYY-MM-DD of a TreasuryDirect timestamp.
func parseDate(s string) (time.Time, error) {
	if len(s) < 10 {
		return time.Time{}, fmt.Errorf("%q too short", s)
	}
	return time.Parse("2006-01-02", s[:10])
}

func yearsBetween(from, to time.Time) float64 {
	days := math.Round(to.Sub(from).Hours() / 24)
	return days / DaysPerYear
}
