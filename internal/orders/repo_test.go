package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	pkgdb "github.com/rajagrocer/storefront-backend/pkg/db"
	"github.com/rajagrocer/storefront-backend/pkg/db/models"
	"github.com/rajagrocer/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
	return client.DB()
}

func testOrder(code string, total int64) *models.Order {
	return &models.Order{
		OrderCode:     code,
		PaymentMethod: enums.PaymentMethodCOD,
		Total:         decimal.NewFromInt(total),
		UserEmail:     "owner@rajagrocer.example",
		SubmittedAt:   time.Now().UTC(),
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
		},
	}
}

func TestRepository_ReplaceLatest(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceLatest(ctx, testOrder("ORD-AB12CD", 500)))

	// A second submission replaces the first snapshot wholesale.
	require.NoError(t, repo.ReplaceLatest(ctx, testOrder("ORD-EF34GH", 250)))

	_, err := repo.FindByCode(ctx, "ORD-AB12CD")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByCode(ctx, "ORD-EF34GH")
	require.NoError(t, err)
	require.Equal(t, "ORD-EF34GH", found.OrderCode)
	require.Len(t, found.Items, 1)
	require.Equal(t, "rice1", found.Items[0].ItemID)

	var lineCount int64
	require.NoError(t, db.Model(&models.OrderLineItem{}).Count(&lineCount).Error)
	require.EqualValues(t, 1, lineCount)
}

func TestRepository_FindByCode_NotFound(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByCode(context.Background(), "ORD-ZZ99ZZ")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
