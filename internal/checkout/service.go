package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rajagrocer/storefront-backend/internal/cart"
	"github.com/rajagrocer/storefront-backend/internal/orders"
	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"github.com/rajagrocer/storefront-backend/pkg/enums"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
	"github.com/rajagrocer/storefront-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Result is what a successful submission reports back to the caller.
type Result struct {
	OrderCode string
	Total     string
	Message   string
}

// Service submits the current cart as an order to the remote sheet.
type Service interface {
	Submit(ctx context.Context, payment enums.PaymentMethod) (*Result, error)
}

type service struct {
	cart      cart.Service
	orders    orders.Repository
	tx        txRunner
	sheet     SheetClient
	userEmail string
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics

	inFlight atomic.Bool
	now      func() time.Time
}

// NewService builds the checkout submitter.
func NewService(
	cartSvc cart.Service,
	orderRepo orders.Repository,
	tx txRunner,
	sheet SheetClient,
	userEmail string,
	logg *logger.Logger,
	m *metrics.StorefrontMetrics,
) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet client required")
	}
	if strings.TrimSpace(userEmail) == "" {
		return nil, fmt.Errorf("user email required")
	}
	return &service{
		cart:      cartSvc,
		orders:    orderRepo,
		tx:        tx,
		sheet:     sheet,
		userEmail: userEmail,
		logg:      logg,
		metrics:   m,
		now:       time.Now,
	}, nil
}

// Submit sends the cart to the order sheet. Exactly one submission may be in
// flight at a time; a concurrent call fails fast without touching the
// network. On success the latest-order snapshot is replaced, the cart is
// cleared, and a fresh order code is issued, all in one transaction. Any
// failure before that point leaves the cart and order code untouched so the
// shopper can retry.
func (s *service) Submit(ctx context.Context, payment enums.PaymentMethod) (*Result, error) {
	if !payment.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "an order submission is already in progress")
	}
	defer s.inFlight.Store(false)

	snap, err := s.cart.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	req := s.buildRequest(snap, payment)
	if s.logg != nil {
		ctx = s.logg.WithOrderCode(ctx, req.OrderCode)
	}

	resp, err := s.sheet.PlaceOrder(ctx, req)
	if err != nil {
		s.metrics.IncSubmission(payment.String(), metrics.OutcomeTransport)
		return nil, err
	}
	if resp.Status != "success" {
		s.metrics.IncSubmission(payment.String(), metrics.OutcomeRejected)
		message := resp.Message
		if message == "" {
			message = "order was not accepted"
		}
		return nil, pkgerrors.New(pkgerrors.CodeRejected, message).
			WithDetails(map[string]any{"reason": message})
	}

	submittedCode := resp.OrderCode
	if submittedCode == "" {
		submittedCode = req.OrderCode
	}

	order := s.buildOrder(snap, payment, submittedCode)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).ReplaceLatest(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order snapshot")
		}
		_, err := s.cart.ClearAndRotate(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSubmission(payment.String(), metrics.OutcomeSuccess)
	if s.logg != nil {
		s.logg.Info(ctx, "order submitted")
	}

	return &Result{
		OrderCode: submittedCode,
		Total:     snap.Total.String(),
		Message:   resp.Message,
	}, nil
}

func (s *service) buildRequest(snap *cart.Snapshot, payment enums.PaymentMethod) *PlaceOrderRequest {
	items := make([]OrderItemWire, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, OrderItemWire{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.UnitPrice.InexactFloat64(),
			Quantity: item.Quantity,
		})
	}
	return &PlaceOrderRequest{
		OrderCode: snap.OrderCode,
		UserEmail: s.userEmail,
		Total:     snap.Total.InexactFloat64(),
		Payment:   payment.String(),
		Items:     items,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
}

func (s *service) buildOrder(snap *cart.Snapshot, payment enums.PaymentMethod, code string) *models.Order {
	lines := make([]models.OrderLineItem, 0, len(snap.Items))
	for _, item := range snap.Items {
		lines = append(lines, models.OrderLineItem{
			ID:        uuid.New(),
			OrderCode: code,
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return &models.Order{
		OrderCode:     code,
		PaymentMethod: payment,
		Total:         snap.Total,
		UserEmail:     s.userEmail,
		SubmittedAt:   s.now().UTC(),
		Items:         lines,
	}
}
