package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/ust_basket/internal/domain"
)

func mustContract(t *testing.T, code string) domain.ContractSpec {
	t.Helper()
	spec, err := domain.LookupContract(code)
	require.NoError(t, err)
	return spec
}

func note(cusip, term, maturity string) domain.SecurityRecord {
	return domain.SecurityRecord{
		CUSIP:        cusip,
		Term:         term,
		MaturityDate: maturity + "T00:00:00",
		IssueDate:    "2024-02-29T00:00:00",
		InterestRate: "4.250000",
		LowYield:     "4.318000",
	}
}

// March 2024 delivery: 2024-03-01 .. 2024-03-31.
var march2024 = DeliveryWindowFor(date(2024, 3, 1))

func TestFilter_TwoYearNoteEndToEnd(t *testing.T) {
	records := []domain.SecurityRecord{note("912828XXX", "2-Year", "2026-03-01")}

	entries, warnings := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 1, 15))

	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "912828XXX", e.CUSIP)
	assert.Equal(t, 2, e.CouponsPerYear)
	assert.Equal(t, "2026-03-01", e.MaturityDate)
	assert.False(t, e.EdgeCase)
	assert.InDelta(t, 4.25, e.CouponRate, 1e-9)
	assert.Equal(t, "2.12", e.TimeToMaturity) // 776 days from 2024-01-15
	assert.Equal(t, "4.32", e.LowYield)
	assert.Equal(t, "2024-02-29", e.IssueDate)
}

func TestFilter_EdgeCaseNearMinimumTerm(t *testing.T) {
	// 640 days after 2024-03-01 is 1.7522 years, within 0.005 of TU's 1.75.
	records := []domain.SecurityRecord{note("91282CJX0", "2-Year", "2025-12-01")}

	entries, _ := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	require.Len(t, entries, 1)
	assert.True(t, entries[0].EdgeCase)
	assert.Equal(t, "2025-12-01"+domain.EdgeCaseMarker, entries[0].MaturityDate)
}

func TestFilter_EdgeCaseNearOriginalTerm(t *testing.T) {
	// 730 days after 2024-03-31 is 1.9986 years, within 0.005 of the 2-Year term.
	records := []domain.SecurityRecord{note("91282CKG5", "2-Year", "2026-03-31")}

	entries, _ := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	require.Len(t, entries, 1)
	assert.True(t, entries[0].EdgeCase)
	assert.True(t, strings.HasSuffix(entries[0].MaturityDate, domain.EdgeCaseMarker))
}

func TestFilter_RemainingTermBounds(t *testing.T) {
	tu := mustContract(t, "TU")
	records := []domain.SecurityRecord{
		note("TOO-SHORT", "2-Year", "2025-11-15"), // 1.71 years from first day
		note("TOO-LONG", "3-Year", "2026-05-15"),  // 2.12 years from last day
		note("IN-RANGE", "3-Year", "2025-12-31"),
	}

	entries, _ := NewBasketFilter().Filter(records, march2024, tu, date(2024, 3, 1))

	require.Len(t, entries, 1)
	assert.Equal(t, "IN-RANGE", entries[0].CUSIP)
}

func TestFilter_ExcludesIneligibleTerms(t *testing.T) {
	records := []domain.SecurityRecord{
		note("SEVEN", "7-Year", "2026-01-31"),
		note("TWO", "2-Year", "2026-01-31"),
	}

	entries, warnings := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	assert.Empty(t, warnings, "an ineligible term is not malformed")
	require.Len(t, entries, 1)
	assert.Equal(t, "TWO", entries[0].CUSIP)
}

func TestFilter_ExcludesWhenIssued(t *testing.T) {
	wi := note("WHENISSUED", "2-Year", "2026-02-28")
	wi.InterestRate = ""

	entries, warnings := NewBasketFilter().Filter([]domain.SecurityRecord{wi}, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	assert.Empty(t, entries)
	assert.Empty(t, warnings)
}

func TestFilter_DeduplicatesByCUSIP(t *testing.T) {
	reopening := note("91282CJZ5", "2-Year", "2026-02-28")
	reopening.IssueDate = "2024-03-15T00:00:00"
	records := []domain.SecurityRecord{
		note("91282CJZ5", "2-Year", "2026-02-28"),
		reopening,
		note("91282CKA8", "3-Year", "2026-02-15"),
	}

	entries, _ := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	require.Len(t, entries, 2)
	assert.Equal(t, "91282CJZ5", entries[0].CUSIP)
	assert.Equal(t, "2024-02-29", entries[0].IssueDate, "first listing wins")
	assert.Equal(t, "91282CKA8", entries[1].CUSIP)
}

func TestFilter_PreservesSourceOrderAndIsIdempotent(t *testing.T) {
	records := []domain.SecurityRecord{
		note("C", "5-Year", "2025-12-31"),
		note("A", "2-Year", "2026-02-28"),
		note("B", "3-Year", "2026-01-15"),
	}
	f := NewBasketFilter()
	tu := mustContract(t, "TU")

	first, _ := f.Filter(records, march2024, tu, date(2024, 3, 1))
	second, _ := f.Filter(records, march2024, tu, date(2024, 3, 1))

	require.Len(t, first, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{first[0].CUSIP, first[1].CUSIP, first[2].CUSIP})
	assert.Equal(t, first, second)
}

func TestFilter_SkipsMalformedRecordsWithWarning(t *testing.T) {
	badMaturity := note("BADDATE", "2-Year", "")
	badMaturity.MaturityDate = "2026/02/28"
	noTerm := note("NOTERM", "", "2026-02-28")
	noCUSIP := note("", "2-Year", "2026-02-28")
	badYield := note("BADYIELD", "2-Year", "2026-02-28")
	badYield.LowYield = ""
	badCoupon := note("BADCOUPON", "2-Year", "2026-02-28")
	badCoupon.InterestRate = "n/a"
	records := []domain.SecurityRecord{
		badMaturity, noTerm, noCUSIP, badYield, badCoupon,
		note("GOOD", "2-Year", "2026-02-28"),
	}

	entries, warnings := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	require.Len(t, entries, 1)
	assert.Equal(t, "GOOD", entries[0].CUSIP)
	assert.Len(t, warnings, 5)
}

func TestFilter_EmptyInputYieldsEmptyBasket(t *testing.T) {
	entries, warnings := NewBasketFilter().Filter(nil, march2024, mustContract(t, "FV"), date(2024, 3, 1))
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.Empty(t, warnings)
}

func TestFilter_BondContracts(t *testing.T) {
	bonds := []domain.SecurityRecord{
		note("BOND-2044", "30-Year", "2044-02-15"), // ~19.9 years: US
		note("BOND-2053", "30-Year", "2053-11-15"), // ~29.7 years: UB
		note("BOND-20Y", "20-Year", "2044-02-15"),
	}

	us, _ := NewBasketFilter().Filter(bonds, march2024, mustContract(t, "US"), date(2024, 3, 1))
	ub, _ := NewBasketFilter().Filter(bonds, march2024, mustContract(t, "UB"), date(2024, 3, 1))

	require.Len(t, us, 1)
	assert.Equal(t, "BOND-2044", us[0].CUSIP)
	require.Len(t, ub, 1)
	assert.Equal(t, "BOND-2053", ub[0].CUSIP)
}

func TestFilter_NumericLowYield(t *testing.T) {
	rec := note("NUMERIC", "5-Year", "2028-12-31")
	rec.LowYield = "4.1"

	entries, _ := NewBasketFilter().Filter([]domain.SecurityRecord{rec}, march2024, mustContract(t, "FV"), date(2024, 3, 1))

	require.Len(t, entries, 1)
	assert.Equal(t, "4.10", entries[0].LowYield)
}

func TestFilter_ReportsUndecodableRecords(t *testing.T) {
	records := []domain.SecurityRecord{
		{DecodeError: "json: cannot unmarshal string into Go value of type domain.SecurityRecord"},
		note("GOOD", "2-Year", "2026-02-28"),
	}

	entries, warnings := NewBasketFilter().Filter(records, march2024, mustContract(t, "TU"), date(2024, 3, 1))

	require.Len(t, entries, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "record 0")
}
