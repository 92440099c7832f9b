package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type SecurityClass string

const (
	ClassNote SecurityClass = "Note"
	ClassBond SecurityClass = "Bond"
)

// SecurityRecord is a security as listed by TreasuryDirect. Fields are kept
// in their wire form; dates carry a time suffix ("2026-11-30T00:00:00").
type SecurityRecord struct {
	CUSIP        string     `json:"cusip"`
	Term         string     `json:"term"`
	MaturityDate string     `json:"maturityDate"`
	IssueDate    string     `json:"issueDate"`
	InterestRate string     `json:"interestRate"` // empty for when-issued notes and reopenings
	LowYield     FlexString `json:"lowYield"`

	// DecodeError is set by the source when the list element could not be read.
	DecodeError string `json:"-"`
}

// FlexString accepts a JSON string, number or null.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) Float() (float64, error) {
	return strconv.ParseFloat(string(f), 64)
}
