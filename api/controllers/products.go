package controllers

import (
	"net/http"

	"github.com/rajagrocer/storefront-backend/api/responses"
	"github.com/rajagrocer/storefront-backend/internal/catalog"
	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
)

type productResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice string `json:"unitPrice"`
	InStock   bool   `json:"inStock"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		UnitPrice: p.UnitPrice.String(),
		InStock:   p.InStock,
	}
}

// ListProducts serves the catalog, optionally filtered by the q parameter.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		responses.WriteSuccess(w, out)
	}
}
