package delivery

import (
	"testing"

	"matrium-backend/internal/apperrors"
	"matrium-backend/internal/database"
	"matrium-backend/internal/inventory"
	"matrium-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	ledger := inventory.NewService(db, 10)
	return NewService(db, ledger), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int, price string) models.Product {
	t.Helper()
	unitPrice := decimal.RequireFromString(price)
	p := models.Product{
		Name:        name,
		Category:    "Raw Material",
		Supplier:    "Acme",
		Quantity:    qty,
		UnitPrice:   unitPrice,
		TotalAmount: unitPrice.Mul(decimal.NewFromInt(int64(qty))),
		Status:      models.StatusAvailable,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func validInput(products []LineInput) CreateDeliveryInput {
	return CreateDeliveryInput{
		OrderID:         42,
		CustomerName:    "Jane Smith",
		DeliveryAddress: "12 Factory Lane",
		DeliveryDate:    "2025-01-15",
		Status:          "pending",
		DeliveryType:    "standard",
		Products:        products,
	}
}

func TestCreateDebitsStock(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 20, "4.00")

	d, err := svc.Create(validInput([]LineInput{{ProductID: p.ID, Quantity: 6}}))
	require.NoError(t, err)
	assert.NotZero(t, d.ID)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 14, reloaded.Quantity)
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("56.00")), "total %s", reloaded.TotalAmount)

	var items int64
	require.NoError(t, db.Model(&models.DeliveryItem{}).Where("delivery_id = ?", d.ID).Count(&items).Error)
	assert.EqualValues(t, 1, items)
}

func TestCreateInsufficientStockLeavesQuantityUnchanged(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 5, "4.00")

	_, err := svc.Create(validInput([]LineInput{{ProductID: p.ID, Quantity: 6}}))
	var insufficient *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 5, reloaded.Quantity)
}

func TestCreateFailingLineRollsBackEarlierDebits(t *testing.T) {
	svc, db := newTestService(t)
	a := seedProduct(t, db, "Steel Rod", 20, "4.00")
	b := seedProduct(t, db, "Copper Wire", 2, "9.00")

	_, err := svc.Create(validInput([]LineInput{
		{ProductID: a.ID, Quantity: 6},
		{ProductID: b.ID, Quantity: 3}, // short by one
	}))
	var insufficient *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	var reloadedA, reloadedB models.Product
	require.NoError(t, db.First(&reloadedA, a.ID).Error)
	require.NoError(t, db.First(&reloadedB, b.ID).Error)
	assert.Equal(t, 20, reloadedA.Quantity, "first line debit must be rolled back")
	assert.Equal(t, 2, reloadedB.Quantity)

	var deliveries int64
	require.NoError(t, db.Model(&models.Delivery{}).Count(&deliveries).Error)
	assert.Zero(t, deliveries)
}

func TestCreateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(validInput([]LineInput{{ProductID: 999, Quantity: 1}}))
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 20, "4.00")

	cases := []struct {
		name   string
		mutate func(*CreateDeliveryInput)
	}{
		{"orderId", func(in *CreateDeliveryInput) { in.OrderID = 0 }},
		{"customerName", func(in *CreateDeliveryInput) { in.CustomerName = "" }},
		{"deliveryAddress", func(in *CreateDeliveryInput) { in.DeliveryAddress = "" }},
		{"deliveryDate", func(in *CreateDeliveryInput) { in.DeliveryDate = "" }},
		{"status", func(in *CreateDeliveryInput) { in.Status = "" }},
		{"deliveryType", func(in *CreateDeliveryInput) { in.DeliveryType = "" }},
		{"products", func(in *CreateDeliveryInput) { in.Products = nil }},
	}
	for _, tc := range cases {
		in := validInput([]LineInput{{ProductID: p.ID, Quantity: 1}})
		tc.mutate(&in)
		_, err := svc.Create(in)
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation, tc.name)
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 20, "4.00")

	in := validInput([]LineInput{{ProductID: p.ID, Quantity: 1}})
	in.DeliveryDate = "15/01/2025"
	_, err := svc.Create(in)
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestListExpandsLines(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 20, "4.00")

	_, err := svc.Create(validInput([]LineInput{{ProductID: p.ID, Quantity: 3}}))
	require.NoError(t, err)

	views, err := svc.List()
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, "Jane Smith", views[0].CustomerName)
	assert.Equal(t, "2025-01-15", views[0].DeliveryDate)
	require.Len(t, views[0].Products, 1)
	assert.Equal(t, "Steel Rod", views[0].Products[0].Name)
	assert.Equal(t, 3, views[0].Products[0].Quantity)
}

func TestUpdateTouchesOnlyProvidedFields(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 20, "4.00")

	d, err := svc.Create(validInput([]LineInput{{ProductID: p.ID, Quantity: 3}}))
	require.NoError(t, err)

	status := "shipped"
	updated, err := svc.Update(d.ID, UpdateDeliveryInput{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, "Jane Smith", updated.CustomerName)

	// stock untouched
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 17, reloaded.Quantity)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	status := "shipped"
	_, err := svc.Update(999, UpdateDeliveryInput{Status: &status})
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDeleteRestoresExactQuantities(t *testing.T) {
	svc, db := newTestService(t)
	a := seedProduct(t, db, "Steel Rod", 20, "4.00")
	b := seedProduct(t, db, "Copper Wire", 10, "9.00")

	d, err := svc.Create(validInput([]LineInput{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 2},
	}))
	require.NoError(t, err)

	_, err = svc.Delete(d.ID)
	require.NoError(t, err)

	var reloadedA, reloadedB models.Product
	require.NoError(t, db.First(&reloadedA, a.ID).Error)
	require.NoError(t, db.First(&reloadedB, b.ID).Error)
	assert.Equal(t, 20, reloadedA.Quantity)
	assert.Equal(t, 10, reloadedB.Quantity)

	var items int64
	require.NoError(t, db.Model(&models.DeliveryItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestDeleteTwiceDoesNotDoubleCredit(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Steel Rod", 20, "4.00")

	d, err := svc.Create(validInput([]LineInput{{ProductID: p.ID, Quantity: 3}}))
	require.NoError(t, err)

	_, err = svc.Delete(d.ID)
	require.NoError(t, err)

	_, err = svc.Delete(d.ID)
	var notFound *apperrors.NotFoundError
	require.ErrorAs(t, err, &notFound)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 20, reloaded.Quantity)
}
