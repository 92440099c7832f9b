package domain

import (
	"fmt"
	"maps"
	"strings"
)

// ContractSpec holds the CME deliverable-grade rules for a UST futures contract.
type ContractSpec struct {
	Code  string        `json:"code"`
	Name  string        `json:"name"`
	Class SecurityClass `json:"class"`
	// MinRemainingYears is the minimum remaining term as of the first day of the delivery month.
	MinRemainingYears float64 `json:"min_remaining_years"`
	// MaxYearsFromLastDay is the maximum remaining term as of the last day of the delivery month.
	MaxYearsFromLastDay float64 `json:"max_years_from_last_day"`
	// EligibleTerms maps TreasuryDirect original-term labels to years.
	EligibleTerms map[string]float64 `json:"eligible_terms"`
	Description   string             `json:"description"`
}

// MaxTermYears returns the longest eligible original term.
func (c ContractSpec) MaxTermYears() float64 {
	longest := 0.0
	for _, y := range c.EligibleTerms {
		if y > longest {
			longest = y
		}
	}
	return longest
}

var contractOrder = []string{"TU", "FV", "TY", "TN", "US", "UB"}

var tenYearTerms = map[string]float64{"9-Year 10-Month": 9.8333, "9-Year 11-Month": 9.9167, "10-Year": 10}

var bondTerms = map[string]float64{"29-Year 10-Month": 29.8333, "29-Year 11-Month": 29.9167, "30-Year": 30}

var contracts = map[string]ContractSpec{
	"TU": {
		Code: "TU", Name: "2-Year T-Note", Class: ClassNote,
		MinRemainingYears: 1.75, MaxYearsFromLastDay: 2,
		EligibleTerms: map[string]float64{"2-Year": 2, "3-Year": 3, "5-Year": 5},
		Description: "U.S. Treasury notes with an original term to maturity of not more than five years and three months " +
			"and a remaining term to maturity of not less than one year and nine months from the first day of the delivery month " +
			"and not more than two years from the last day of the delivery month.",
	},
	"FV": {
		Code: "FV", Name: "5-Year T-Note", Class: ClassNote,
		MinRemainingYears: 4.1667, MaxYearsFromLastDay: 5.25,
		EligibleTerms: map[string]float64{"5-Year": 5},
		Description: "U.S. Treasury notes with an original term to maturity of not more than five years and three months " +
			"and a remaining term to maturity of not less than four years and two months as of the first day of the delivery month.",
	},
	"TY": {
		Code: "TY", Name: "10-Year T-Note", Class: ClassNote,
		MinRemainingYears: 6.5, MaxYearsFromLastDay: 10.0833,
		EligibleTerms: map[string]float64{"7-Year": 7, "9-Year 10-Month": 9.8333, "9-Year 11-Month": 9.9167, "10-Year": 10},
		Description: "U.S. Treasury notes with a remaining term to maturity of at least six and a half years " +
			"and not more than ten years from the first day of the delivery month.",
	},
	"TN": {
		Code: "TN", Name: "Ultra 10-Year T-Note", Class: ClassNote,
		MinRemainingYears: 9.4167, MaxYearsFromLastDay: 10.0833,
		EligibleTerms: tenYearTerms,
		Description: "Original issue 10-year U.S. Treasury notes with a remaining term to maturity of at least nine years " +
			"and five months and not more than ten years from the first day of the delivery month.",
	},
	"US": {
		Code: "US", Name: "T-Bond", Class: ClassBond,
		MinRemainingYears: 15, MaxYearsFromLastDay: 25.0833,
		EligibleTerms: bondTerms,
		Description: "U.S. Treasury bonds with a remaining term to maturity of at least 15 years " +
			"and less than 25 years from the first day of the delivery month.",
	},
	"UB": {
		Code: "UB", Name: "Ultra T-Bond", Class: ClassBond,
		MinRemainingYears: 25, MaxYearsFromLastDay: 30.0833,
		EligibleTerms: bondTerms,
		Description: "U.S. Treasury bonds with a remaining term to maturity of not less than 25 years " +
			"from the first day of the delivery month.",
	},
}

// LookupContract resolves a contract code (case-insensitive). The returned
// spec owns its own copy of the eligible-term table.
func LookupContract(code string) (ContractSpec, error) {
	spec, ok := contracts[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return ContractSpec{}, fmt.Errorf("%w: %q", ErrInvalidContract, code)
	}
	spec.EligibleTerms = maps.Clone(spec.EligibleTerms)
	return spec, nil
}

// Contracts lists all supported contracts in exchange order.
func Contracts() []ContractSpec {
	out := make([]ContractSpec, 0, len(contractOrder))
	for _, code := range contractOrder {
		spec, _ := LookupContract(code)
		out = append(out, spec)
	}
	return out
}
