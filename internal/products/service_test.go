package products

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustCreateProduct(t *testing.T, svc Service, code, name string) *View {
	t.Helper()
	view, err := svc.Create(context.Background(), CreateInput{
		Code:         code,
		Name:         name,
		Price:        dec("14.99"),
		PriceWithVat: dec("18.14"),
	})
	require.NoError(t, err)
	return view
}

func TestCreateProductValidates(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Price: dec("-1")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, map[string]string{
		"code":         blankMessage,
		"name":         blankMessage,
		"price":        negativeMessage,
		"priceWithVat": blankMessage,
	}, pkgerrors.As(err).Details())

	_, err = svc.Create(context.Background(), CreateInput{Code: "X", Name: "X", Price: dec("1.005"), PriceWithVat: dec("1")})
	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"price": "must have at most 2 decimal places",
	}, pkgerrors.As(err).Details())
}

func TestCreateProductRejectsDuplicateCode(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreateProduct(t, svc, "P-1", "Widget")

	_, err := svc.Create(context.Background(), CreateInput{Code: "P-1", Name: "Other", Price: dec("1"), PriceWithVat: dec("1")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestGetUpdateDeleteProduct(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	created := mustCreateProduct(t, svc, "P-1", "Widget")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("14.99").Equal(got.Price))

	name := "Widget Pro"
	price := decimal.RequireFromString("20.00")
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, "P-1", updated.Code)

	blank := " "
	_, err = svc.Update(ctx, created.ID, UpdateInput{Name: &blank})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	customer := &models.Customer{ID: uuid.New(), FirstName: "A", LastName: "B", Email: "a@b.c"}
	require.NoError(t, conn.Create(customer).Error)
	order := &models.Order{ID: uuid.New(), CustomerID: customer.ID, IssuedAt: time.Now()}
	require.NoError(t, conn.Create(order).Error)
	item := &models.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: &created.ID,
		Quantity:  1,
		Price:     decimal.NewNullDecimal(decimal.RequireFromString("14.99")),
	}
	require.NoError(t, conn.Create(item).Error)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var reloaded models.OrderItem
	require.NoError(t, conn.First(&reloaded, "id = ?", item.ID).Error)
	assert.Nil(t, reloaded.ProductID)
	assert.True(t, decimal.RequireFromString("14.99").Equal(reloaded.Price.Decimal))

	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}

func TestListProductsSearchesAndPaginates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	names := []string{"Blue Chair", "Red Chair", "Table", "Green chair"}
	for i, name := range names {
		view := mustCreateProduct(t, svc, "P-"+name, name)
		require.NoError(t, conn.Model(&models.Product{}).
			Where("id = ?", view.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	first, err := svc.List(ctx, ListInput{Search: "CHAIR", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	assert.Equal(t, "Green chair", first.Products[0].Name)
	assert.Equal(t, "Red Chair", first.Products[1].Name)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, ListInput{Search: "chair", Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Equal(t, "Blue Chair", second.Products[0].Name)
	assert.Empty(t, second.NextCursor)

	all, err := svc.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Len(t, all.Products, len(names))

	_, err = svc.List(ctx, ListInput{Cursor: "not-a-cursor"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
