package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the cart store: an explicit single-writer object holding the
// device cart and the current order code. Every mutation persists the cart
// and the code durably before returning.
type Service interface {
	AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error)
	ChangeQuantity(ctx context.Context, id string, delta int) error
	RemoveItem(ctx context.Context, id string) error
	Snapshot(ctx context.Context) (*Snapshot, error)
	Total(ctx context.Context) (decimal.Decimal, error)
	OrderCode(ctx context.Context) (string, error)
	Clear(ctx context.Context) (string, error)
	ClearAndRotate(ctx context.Context, tx *gorm.DB) (string, error)
}

// AddItemInput mirrors the data required to add one product to the cart.
type AddItemInput struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
}

// Snapshot is the cart rendered for display: items in insertion order, the
// derived total, and the order code the next submission will carry.
type Snapshot struct {
	Items     []models.CartItem
	Total     decimal.Decimal
	OrderCode string
}

type service struct {
	mu   sync.Mutex
	repo Repository
	tx   txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// AddItem appends a new line with quantity 1 or bumps an existing line's
// quantity by 1. Repeated clicks on the same product never duplicate a line.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.CartItem, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var saved *models.CartItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.currentOrderCode(ctx, repo); err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, input.ID)
		switch {
		case err == nil:
			item.Quantity++
		case errors.Is(err, gorm.ErrRecordNotFound):
			position, posErr := repo.NextPosition(ctx)
			if posErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, posErr, "allocate cart position")
			}
			item = &models.CartItem{
				ID:        input.ID,
				Name:      input.Name,
				UnitPrice: input.UnitPrice,
				Quantity:  1,
				Position:  position,
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}

		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart item")
		}
		saved = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// ChangeQuantity applies a signed delta to a line's quantity. An unknown id
// is a no-op; a resulting quantity of zero or less removes the line.
func (s *service) ChangeQuantity(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}

		item.Quantity += delta
		if item.Quantity <= 0 {
			if err := repo.DeleteItem(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
			}
			return nil
		}
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart item")
		}
		return nil
	})
}

// RemoveItem drops a line entirely regardless of quantity.
func (s *service) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteItem(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
		}
		return nil
	})
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}

	code, err := s.ensureOrderCode(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Items:     items,
		Total:     sumItems(items),
		OrderCode: code,
	}, nil
}

// Total returns the sum of unit price times quantity over the current items.
func (s *service) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	return sumItems(items), nil
}

// OrderCode returns the code the next submission will carry, lazily
// initializing it on first use.
func (s *service) OrderCode(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureOrderCode(ctx)
}

// Clear empties the cart and issues a fresh order code.
func (s *service) Clear(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rotated, err := s.clearAndRotate(ctx, s.repo.WithTx(tx))
		if err != nil {
			return err
		}
		code = rotated
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// ClearAndRotate empties the cart and rotates the order code inside an
// externally managed transaction. The checkout flow uses this so the local
// clear commits atomically with the latest-order snapshot.
func (s *service) ClearAndRotate(ctx context.Context, tx *gorm.DB) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearAndRotate(ctx, s.repo.WithTx(tx))
}

func (s *service) clearAndRotate(ctx context.Context, repo Repository) (string, error) {
	if err := repo.DeleteAllItems(ctx); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	code, err := NewOrderCode()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate order code")
	}
	if err := repo.SetState(ctx, models.StateKeyOrderCode, code); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order code")
	}
	return code, nil
}

// ensureOrderCode must be called with the mutex held.
func (s *service) ensureOrderCode(ctx context.Context) (string, error) {
	return s.currentOrderCode(ctx, s.repo)
}

func (s *service) currentOrderCode(ctx context.Context, repo Repository) (string, error) {
	code, err := repo.GetState(ctx, models.StateKeyOrderCode)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order code")
	}
	if code != "" {
		return code, nil
	}
	code, err = NewOrderCode()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order code")
	}
	if err := repo.SetState(ctx, models.StateKeyOrderCode, code); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order code")
	}
	return code, nil
}

func sumItems(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}
