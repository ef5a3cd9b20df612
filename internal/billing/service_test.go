package billing

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajagrocer/storefront-backend/internal/orders"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	pkgdb "github.com/rajagrocer/storefront-backend/pkg/db"
	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"github.com/rajagrocer/storefront-backend/pkg/enums"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeApproval struct {
	approved map[string]bool
}

func (f *fakeApproval) CheckApproval(_ context.Context, code string) bool {
	return f.approved[code]
}

func setupBillingTestDB(t *testing.T) *pkgdb.Client {
	t.Helper()

	client, err := pkgdb.New(context.Background(), config.DBConfig{
		Driver:       "sqlite",
		DSN:          "file:" + t.Name() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	for _, stmt := range []string{
		`CREATE TABLE orders (
			order_code TEXT PRIMARY KEY,
			payment_method TEXT NOT NULL,
			total NUMERIC NOT NULL,
			user_email TEXT NOT NULL,
			submitted_at DATETIME NOT NULL,
			created_at DATETIME
		)`,
		`CREATE TABLE order_line_items (
			id TEXT PRIMARY KEY,
			order_code TEXT NOT NULL,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			unit_price NUMERIC NOT NULL,
			quantity INTEGER NOT NULL,
			line_total NUMERIC NOT NULL,
			created_at DATETIME
		)`,
	} {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}
	return client
}

func seedOrder(t *testing.T, repo orders.Repository, code string) {
	t.Helper()
	require.NoError(t, repo.ReplaceLatest(context.Background(), &models.Order{
		OrderCode:     code,
		PaymentMethod: enums.PaymentMethodUPI,
		Total:         decimal.NewFromInt(540),
		UserEmail:     "owner@rajagrocer.example",
		SubmittedAt:   time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC),
		Items: []models.OrderLineItem{
			{
				ID:        uuid.New(),
				OrderCode: code,
				ItemID:    "rice1",
				Name:      "Rice 5kg",
				UnitPrice: decimal.NewFromInt(250),
				Quantity:  2,
				LineTotal: decimal.NewFromInt(500),
			},
			{
				ID:        uuid.New(),
				OrderCode: code,
				ItemID:    "salt1",
				Name:      "Salt 1kg",
				UnitPrice: decimal.NewFromInt(40),
				Quantity:  1,
				LineTotal: decimal.NewFromInt(40),
			},
		},
	}))
}

func newBillingService(t *testing.T, approved ...string) Service {
	t.Helper()
	client := setupBillingTestDB(t)
	repo := orders.NewRepository(client.DB())
	seedOrder(t, repo, "ORD-AB12CD")

	approvedSet := make(map[string]bool, len(approved))
	for _, code := range approved {
		approvedSet[code] = true
	}

	svc, err := NewService(repo, &fakeApproval{approved: approvedSet}, config.StoreConfig{
		Name:           "Raja Rice & Grocery",
		Email:          "owner@rajagrocer.example",
		CurrencySymbol: "₹",
	})
	require.NoError(t, err)
	return svc
}

func TestGetBill_ApprovedOrder(t *testing.T) {
	svc := newBillingService(t, "ORD-AB12CD")

	bill, err := svc.GetBill(context.Background(), "ord-ab12cd")
	require.NoError(t, err)

	require.Equal(t, "Raja Rice & Grocery", bill.StoreName)
	require.Equal(t, "ORD-AB12CD", bill.OrderCode)
	require.Equal(t, enums.PaymentMethodUPI, bill.Payment)
	require.True(t, bill.Total.Equal(decimal.NewFromInt(540)))
	require.Len(t, bill.Lines, 2)
	require.Equal(t, "Rice 5kg", bill.Lines[0].Name)
	require.Equal(t, "Thank you for shopping with us!", bill.Footer)
}

func TestGetBill_UnapprovedOrder(t *testing.T) {
	svc := newBillingService(t)

	_, err := svc.GetBill(context.Background(), "ORD-AB12CD")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestGetBill_UnknownCode(t *testing.T) {
	svc := newBillingService(t, "ORD-ZZ99ZZ")

	_, err := svc.GetBill(context.Background(), "ORD-ZZ99ZZ")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestFindOrder_CaseInsensitive(t *testing.T) {
	svc := newBillingService(t)

	order, err := svc.FindOrder(context.Background(), "ord-ab12cd")
	require.NoError(t, err)
	require.Equal(t, "ORD-AB12CD", order.OrderCode)
	require.Len(t, order.Items, 2)
}

func TestGetBill_BlankCode(t *testing.T) {
	svc := newBillingService(t)

	_, err := svc.GetBill(context.Background(), "   ")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestExportPDF(t *testing.T) {
	svc := newBillingService(t, "ORD-AB12CD")

	filename, data, err := svc.ExportPDF(context.Background(), "ORD-AB12CD")
	require.NoError(t, err)
	require.Equal(t, "RajaGrocer_Bill_ORD-AB12CD.pdf", filename)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportPDF_UnapprovedOrder(t *testing.T) {
	svc := newBillingService(t)

	_, _, err := svc.ExportPDF(context.Background(), "ORD-AB12CD")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}
