package approval

import (
	"context"
	"fmt"

	"github.com/rajagrocer/storefront-backend/internal/cart"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
	"github.com/rajagrocer/storefront-backend/pkg/metrics"
)

// Fetcher is the wire surface the checker depends on.
type Fetcher interface {
	FetchApprovedCodes(ctx context.Context) ([]string, error)
}

// Service answers whether an order code has been approved for billing.
type Service interface {
	CheckApproval(ctx context.Context, code string) bool
}

type service struct {
	fetcher Fetcher
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewService builds the approval checker.
func NewService(fetcher Fetcher, logg *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("approval fetcher required")
	}
	return &service{fetcher: fetcher, logg: logg, metrics: m}, nil
}

// CheckApproval re-fetches the approved-code list and reports membership.
// A transport failure is treated as an empty list: nothing looks approved.
// The degradation is logged and counted so it stays visible to operators.
func (s *service) CheckApproval(ctx context.Context, code string) bool {
	normalized := cart.NormalizeOrderCode(code)

	codes, err := s.fetcher.FetchApprovedCodes(ctx)
	if err != nil {
		if s.logg != nil {
			ctx = s.logg.WithOrderCode(ctx, normalized)
			s.logg.Warn(ctx, "approval fetch failed, treating code as not approved: "+err.Error())
		}
		s.metrics.IncApprovalCheck(metrics.ResultError)
		return false
	}

	for _, approved := range codes {
		if cart.NormalizeOrderCode(approved) == normalized {
			s.metrics.IncApprovalCheck(metrics.ResultApproved)
			return true
		}
	}
	s.metrics.IncApprovalCheck(metrics.ResultNotApproved)
	return false
}
