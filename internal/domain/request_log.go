package domain

import "time"

const (
	RequestStatusOK              = "ok"
	RequestStatusInvalidContract = "invalid_contract"
	RequestStatusFetchError      = "fetch_error"
)

// RequestLog describes one basket computation. Entries themselves are not kept.
type RequestLog struct {
	ID           int64     `json:"id"`
	Contract     string    `json:"contract"`
	Abbreviation string    `json:"abbreviation"`
	Class        string    `json:"class"`
	Entries      int       `json:"entries"`
	EdgeCases    int       `json:"edge_cases"`
	Warnings     int       `json:"warnings"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	RequestedAt  time.Time `json:"requested_at"`
}
