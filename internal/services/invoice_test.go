package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmoraru/facturo/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Product{}, &models.Invoice{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seed a supplier, a recipient, and one product
func seedFixtures(t *testing.T, db *gorm.DB) (supplier, recipient models.Client, product models.Product) {
	t.Helper()
	supplier = models.Client{Name: "Acme SRL", TaxID: "RO123", Address: "Str. Fabricii 10, Cluj"}
	require.NoError(t, db.Create(&supplier).Error)
	recipient = models.Client{Name: "Beta SRL", TaxID: "RO456", Address: "Bd. Unirii 2, București"}
	require.NoError(t, db.Create(&recipient).Error)
	product = models.Product{Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")}
	require.NoError(t, db.Create(&product).Error)
	return
}

func invoiceCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Invoice{}).Count(&n).Error)
	return n
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)
	svc := NewInvoiceService(db)

	for i := 1; i <= 12; i++ {
		inv, err := svc.Create(supplier.ID, recipient.ID, []uint{product.ID})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FF%04d", i), inv.Number)
	}
}

func TestNextNumberWidensPast9999(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)
	require.NoError(t, db.Create(&models.Invoice{
		Number: "FF9999", SupplierID: supplier.ID, RecipientID: recipient.ID,
	}).Error)

	inv, err := NewInvoiceService(db).Create(supplier.ID, recipient.ID, []uint{product.ID})
	require.NoError(t, err)
	assert.Equal(t, "FF10000", inv.Number)
}

func TestCreateUnknownSupplier(t *testing.T) {
	db := setupTestDB(t)
	_, recipient, product := seedFixtures(t, db)

	_, err := NewInvoiceService(db).Create(9999, recipient.ID, []uint{product.ID})
	var uce *UnknownClientError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "supplier", uce.Role)
	assert.EqualValues(t, 9999, uce.ID)
	assert.EqualValues(t, 0, invoiceCount(t, db), "failed create must persist nothing")
}

func TestCreateUnknownRecipient(t *testing.T) {
	db := setupTestDB(t)
	supplier, _, product := seedFixtures(t, db)

	_, err := NewInvoiceService(db).Create(supplier.ID, 9999, []uint{product.ID})
	var uce *UnknownClientError
	require.ErrorAs(t, err, &uce)
	assert.Equal(t, "recipient", uce.Role)
	assert.EqualValues(t, 0, invoiceCount(t, db))
}

func TestCreateUnknownProductsNamesMissingIDs(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)

	_, err := NewInvoiceService(db).Create(supplier.ID, recipient.ID, []uint{product.ID, 777, 555})
	var upe *UnknownProductsError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, []uint{555, 777}, upe.IDs)
	assert.EqualValues(t, 0, invoiceCount(t, db))

	var joinRows int64
	require.NoError(t, db.Table("invoice_products").Count(&joinRows).Error)
	assert.EqualValues(t, 0, joinRows, "failed create must leave no association rows")
}

func TestCreateDeduplicatesProductIDs(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)

	inv, err := NewInvoiceService(db).Create(supplier.ID, recipient.ID, []uint{product.ID, product.ID})
	require.NoError(t, err)
	assert.Len(t, inv.Products, 1)
}

func TestCreateLinksProductsAndComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)
	svc := NewInvoiceService(db)

	created, err := svc.Create(supplier.ID, recipient.ID, []uint{product.ID})
	require.NoError(t, err)
	require.False(t, created.IssueDate.IsZero())

	loaded, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme SRL", loaded.Supplier.Name)
	assert.Equal(t, "Beta SRL", loaded.Recipient.Name)
	require.Len(t, loaded.Products, 1)
	assert.True(t, loaded.Subtotal().Equal(decimal.RequireFromString("20.00")), "subtotal = %s", loaded.Subtotal())
	assert.True(t, loaded.Total().Equal(decimal.RequireFromString("23.80")), "total = %s", loaded.Total())
}

func TestDeleteInvoiceKeepsClientsAndProducts(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)
	svc := NewInvoiceService(db)

	inv, err := svc.Create(supplier.ID, recipient.ID, []uint{product.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(inv.ID))

	assert.EqualValues(t, 0, invoiceCount(t, db))
	var joinRows int64
	require.NoError(t, db.Table("invoice_products").Count(&joinRows).Error)
	assert.EqualValues(t, 0, joinRows)

	var clients, products int64
	require.NoError(t, db.Model(&models.Client{}).Count(&clients).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 2, clients)
	assert.EqualValues(t, 1, products)
}

func TestDeleteMissingInvoice(t *testing.T) {
	db := setupTestDB(t)
	seedFixtures(t, db)

	err := NewInvoiceService(db).Delete(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissingInvoice(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewInvoiceService(db).Get(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPreloadsProducts(t *testing.T) {
	db := setupTestDB(t)
	supplier, recipient, product := seedFixtures(t, db)
	svc := NewInvoiceService(db)

	_, err := svc.Create(supplier.ID, recipient.ID, []uint{product.ID})
	require.NoError(t, err)

	invoices, err := svc.List()
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].Subtotal().Equal(decimal.RequireFromString("20.00")))
}
