package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rajagrocer/storefront-backend/api/responses"
	"github.com/rajagrocer/storefront-backend/api/validators"
	"github.com/rajagrocer/storefront-backend/internal/cart"
	"github.com/rajagrocer/storefront-backend/internal/catalog"
	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
)

type cartLineResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	Total     string             `json:"total"`
	OrderCode string             `json:"orderCode"`
}

func toCartLineResponse(item models.CartItem) cartLineResponse {
	return cartLineResponse{
		ID:        item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice.String(),
		Quantity:  item.Quantity,
		LineTotal: item.LineTotal().String(),
	}
}

func toCartResponse(snap *cart.Snapshot) cartResponse {
	items := make([]cartLineResponse, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, toCartLineResponse(item))
	}
	return cartResponse{
		Items:     items,
		Total:     snap.Total.String(),
		OrderCode: snap.OrderCode,
	}
}

// GetCart returns the cart snapshot: items in insertion order, the running
// total, and the order code the next checkout will carry.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(snap))
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// AddCartItem puts one unit of a catalog product into the cart. Adding a
// product already in the cart bumps its quantity instead of duplicating
// the line.
func AddCartItem(cartSvc cart.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.Get(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.InStock {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock"))
			return
		}

		item, err := cartSvc.AddItem(r.Context(), cart.AddItemInput{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toCartLineResponse(*item))
	}
}

type changeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// ChangeCartItemQuantity applies a signed delta to one cart line. Driving
// the quantity to zero or below removes the line; an unknown item id is a
// no-op, matching the plus/minus buttons on the cart page.
func ChangeCartItemQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemID")

		var payload changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangeQuantity(r.Context(), itemID, payload.Delta); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(snap))
	}
}

// RemoveCartItem drops a line entirely regardless of quantity.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemID")

		if err := svc.RemoveItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(snap))
	}
}
