package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/metrics"
	"go.uber.org/zap"
)

// BasketService computes delivery baskets on demand. It holds no state
// between computations: every call fetches the security list again.
type BasketService struct {
	source   domain.SecuritySource
	requests domain.RequestLogRepository // optional
	filter   *BasketFilter
	metrics  *metrics.Metrics // optional
	logger   *zap.Logger
	timeNow  func() time.Time // For testing
}

func NewBasketService(source domain.SecuritySource, requests domain.RequestLogRepository, m *metrics.Metrics, logger *zap.Logger) *BasketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BasketService{
		source:   source,
		requests: requests,
		filter:   NewBasketFilter(),
		metrics:  m,
		logger:   logger,
		timeNow:  time.Now,
	}
}

// Compute returns the basket for contract code. A zero ref selects the front
// contract as of today.
func (s *BasketService) Compute(ctx context.Context, code string, ref time.Time) (*domain.Basket, error) {
	start := s.timeNow()
	today := civilDate(start)
	if ref.IsZero() {
		ref = today
	}

	spec, err := domain.LookupContract(code)
	if err != nil {
		s.record(ctx, &domain.RequestLog{Contract: code, Status: domain.RequestStatusInvalidContract, Error: err.Error()}, start)
		return nil, err
	}

	window := DeliveryWindowFor(ref)
	abbr := ContractAbbreviation(spec.Code, ref)
	logger := s.logger.With(zap.String("contract", abbr), zap.String("class", string(spec.Class)))

	records, err := s.source.FetchSecurities(ctx, spec.Class)
	if err != nil {
		if !errors.Is(err, domain.ErrFetch) {
			err = fmt.Errorf("%w: %w", domain.ErrFetch, err)
		}
		logger.Error("Failed to fetch securities", zap.Error(err))
		s.record(ctx, &domain.RequestLog{
			Contract: spec.Code, Abbreviation: abbr, Class: string(spec.Class),
			Status: domain.RequestStatusFetchError, Error: err.Error(),
		}, start)
		return nil, err
	}

	entries, warnings := s.filter.Filter(records, window, spec, today)
	for _, w := range warnings {
		logger.Warn("Skipped malformed security record", zap.String("reason", w))
	}

	basket := &domain.Basket{
		Name:     abbr,
		Contract: spec.Code,
		Window:   window,
		Entries:  entries,
		Warnings: warnings,
	}
	logger.Info("Basket computed",
		zap.Int("securities", len(records)),
		zap.Int("entries", len(entries)),
		zap.Int("edge_cases", basket.EdgeCases()),
		zap.Time("first_day", window.FirstDay),
	)
	s.record(ctx, &domain.RequestLog{
		Contract: spec.Code, Abbreviation: abbr, Class: string(spec.Class),
		Entries: len(entries), EdgeCases: basket.EdgeCases(), Warnings: len(warnings),
		Status: domain.RequestStatusOK,
	}, start)
	return basket, nil
}

// RecentRequests lists the latest computations, newest first.
func (s *BasketService) RecentRequests(ctx context.Context, limit int) ([]*domain.RequestLog, error) {
	if s.requests == nil {
		return nil, nil
	}
	return s.requests.ListRequestLogs(ctx, limit)
}

// Expirations lists the selectable delivery cycles as of today.
func (s *BasketService) Expirations(n int) []Expiration {
	return UpcomingExpirations(s.timeNow(), n)
}

func (s *BasketService) record(ctx context.Context, entry *domain.RequestLog, start time.Time) {
	label := entry.Contract
	if entry.Status == domain.RequestStatusInvalidContract {
		label = "invalid" // keep arbitrary input out of label values
	}
	s.metrics.ObserveBasket(label, entry.Status, entry.Entries, entry.Warnings)
	if s.requests == nil {
		return
	}
	entry.RequestedAt = start
	entry.DurationMs = s.timeNow().Sub(start).Milliseconds()
	if err := s.requests.SaveRequestLog(ctx, entry); err != nil {
		// Request logging never fails a computation.
		s.logger.Error("Failed to save request log", zap.Error(err))
	}
}
