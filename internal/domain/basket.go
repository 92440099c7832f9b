package domain

import "time"

// EdgeCaseMarker is appended to the maturity date of entries whose
// eligibility was decided within the day-count approximation error.
const EdgeCaseMarker = "**"

// CouponsPerYear is the semiannual UST coupon convention.
const CouponsPerYear = 2

// DeliveryWindow spans the delivery month of a quarterly contract.
type DeliveryWindow struct {
	FirstDay time.Time `json:"first_day"`
	LastDay  time.Time `json:"last_day"`
}

// BasketEntry is one deliverable security.
type BasketEntry struct {
	MaturityDate   string  `json:"maturity_date"`
	CouponRate     float64 `json:"coupon_rate"`
	CouponsPerYear int     `json:"coupons_per_year"`
	TimeToMaturity string  `json:"ttm"`
	CUSIP          string  `json:"cusip"`
	IssueDate      string  `json:"issue_date"`
	LowYield       string  `json:"low_yield"`
	EdgeCase       bool    `json:"edge_case"`
}

// Basket holds the deliverable securities for one contract and delivery month.
type Basket struct {
	Name     string         `json:"name"` // contract abbreviation, e.g. TUZ6
	Contract string         `json:"contract"`
	Window   DeliveryWindow `json:"window"`
	Entries  []BasketEntry  `json:"entries"`
	Warnings []string       `json:"warnings,omitempty"`
}

func (b *Basket) EdgeCases() int {
	n := 0
	for _, e := range b.Entries {
		if e.EdgeCase {
			n++
		}
	}
	return n
}
