package domain

import "context"

// SecuritySource fetches the outstanding securities of one class from the
// reference data provider.
type SecuritySource interface {
	FetchSecurities(ctx context.Context, class SecurityClass) ([]SecurityRecord, error)
}

// RequestLogRepository stores metadata about basket computations.
type RequestLogRepository interface {
	SaveRequestLog(ctx context.Context, log *RequestLog) error
	ListRequestLogs(ctx context.Context, limit int) ([]*RequestLog, error)
}
