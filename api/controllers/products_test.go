package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

type stubProductLister struct {
	products []models.Product
	query    string
}

func (s *stubProductLister) List(_ context.Context, query string) ([]models.Product, error) {
	s.query = query
	return s.products, nil
}

func (s *stubProductLister) Get(context.Context, string) (*models.Product, error) {
	return nil, nil
}

func TestListProducts(t *testing.T) {
	stub := &stubProductLister{
		products: []models.Product{
			{ID: "rice1", Name: "Rice 5kg", Category: "Staples", UnitPrice: decimal.NewFromInt(250), InStock: true},
			{ID: "salt1", Name: "Salt 1kg", Category: "Staples", UnitPrice: decimal.NewFromInt(40), InStock: true},
		},
	}
	handler := ListProducts(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=rice", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if stub.query != "rice" {
		t.Fatalf("expected query to pass through, got %q", stub.query)
	}

	var envelope struct {
		Data []productResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 products got %d", len(envelope.Data))
	}
	if envelope.Data[0].UnitPrice != "250" {
		t.Fatalf("unexpected unit price: %s", envelope.Data[0].UnitPrice)
	}
}
