package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rajagrocer/storefront-backend/internal/approval"
	"github.com/rajagrocer/storefront-backend/internal/cart"
	"github.com/rajagrocer/storefront-backend/internal/orders"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"github.com/rajagrocer/storefront-backend/pkg/enums"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Footer printed on every bill.
const billFooter = "Thank you for shopping with us!"

// Bill is the printable projection of an approved order.
type Bill struct {
	StoreName      string              `json:"storeName"`
	OrderCode      string              `json:"orderCode"`
	Payment        enums.PaymentMethod `json:"payment"`
	SubmittedAt    time.Time           `json:"submittedAt"`
	Lines          []BillLine          `json:"lines"`
	Total          decimal.Decimal     `json:"total"`
	CurrencySymbol string              `json:"currencySymbol"`
	Footer         string              `json:"footer"`
}

// BillLine is one order line on the bill.
type BillLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Service renders bills for approved orders.
type Service interface {
	FindOrder(ctx context.Context, code string) (*models.Order, error)
	GetBill(ctx context.Context, code string) (*Bill, error)
	ExportPDF(ctx context.Context, code string) (string, []byte, error)
}

type service struct {
	orders   orders.Repository
	approval approval.Service
	store    config.StoreConfig
}

// NewService builds the bill renderer.
func NewService(orderRepo orders.Repository, approvalSvc approval.Service, store config.StoreConfig) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if approvalSvc == nil {
		return nil, fmt.Errorf("approval service required")
	}
	return &service{orders: orderRepo, approval: approvalSvc, store: store}, nil
}

// FindOrder looks up the retained latest order by code, case-insensitively.
func (s *service) FindOrder(ctx context.Context, code string) (*models.Order, error) {
	normalized := cart.NormalizeOrderCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order code is required")
	}

	order, err := s.orders.FindByCode(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order found for this code")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

// GetBill looks up the order locally, confirms the code is on the approved
// list right now, and renders the bill. The approval list is consulted on
// every call so a revoked code stops producing bills immediately.
func (s *service) GetBill(ctx context.Context, code string) (*Bill, error) {
	order, err := s.FindOrder(ctx, code)
	if err != nil {
		return nil, err
	}

	if !s.approval.CheckApproval(ctx, order.OrderCode) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not approved yet").
			WithDetails(map[string]any{"orderCode": order.OrderCode})
	}

	return s.render(order), nil
}

func (s *service) render(order *models.Order) *Bill {
	lines := make([]BillLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, BillLine{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return &Bill{
		StoreName:      s.store.Name,
		OrderCode:      order.OrderCode,
		Payment:        order.PaymentMethod,
		SubmittedAt:    order.SubmittedAt,
		Lines:          lines,
		Total:          order.Total,
		CurrencySymbol: s.store.CurrencySymbol,
		Footer:         billFooter,
	}
}
