package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dmoraru/facturo/internal/models"
)

// numberPrefix precedes the zero-padded sequence in every invoice number.
const numberPrefix = "FF"

// InvoiceService assembles, lists, and deletes invoices.
type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// nextNumber derives the next sequential invoice number from the stored
// maximum: FF0001 when the ledger is empty, otherwise the 4-digit suffix
// incremented by one. Sequences past 9999 widen naturally. Must run inside
// the invoice-creation transaction; the unique index on number catches any
// concurrent duplicate rather than letting it through.
func nextNumber(tx *gorm.DB) (string, error) {
	var max sql.NullString
	if err := tx.Model(&models.Invoice{}).Select("MAX(number)").Scan(&max).Error; err != nil {
		return "", fmt.Errorf("max invoice number: %w", err)
	}
	if !max.Valid {
		return numberPrefix + "0001", nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(max.String, numberPrefix))
	if err != nil {
		return "", fmt.Errorf("malformed invoice number %q: %w", max.String, err)
	}
	return fmt.Sprintf("%s%04d", numberPrefix, n+1), nil
}

// Create assembles and persists an invoice in a single transaction:
// supplier, recipient, and every product id must resolve, then the next
// number is drawn and the invoice stored with the current timestamp.
// Nothing is persisted when any step fails.
func (s *InvoiceService) Create(supplierID, recipientID uint, productIDs []uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var supplier models.Client
		if err := tx.First(&supplier, supplierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &UnknownClientError{Role: "supplier", ID: supplierID}
			}
			return fmt.Errorf("resolve supplier %d: %w", supplierID, err)
		}

		var recipient models.Client
		if err := tx.First(&recipient, recipientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &UnknownClientError{Role: "recipient", ID: recipientID}
			}
			return fmt.Errorf("resolve recipient %d: %w", recipientID, err)
		}

		// product ids are a set: duplicates collapse
		wanted := make(map[uint]bool, len(productIDs))
		for _, id := range productIDs {
			wanted[id] = true
		}
		var products []models.Product
		if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return fmt.Errorf("resolve products: %w", err)
		}
		if len(products) != len(wanted) {
			for _, p := range products {
				delete(wanted, p.ID)
			}
			missing := make([]uint, 0, len(wanted))
			for id := range wanted {
				missing = append(missing, id)
			}
			sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
			return &UnknownProductsError{IDs: missing}
		}

		number, err := nextNumber(tx)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			Number:      number,
			IssueDate:   time.Now(),
			SupplierID:  supplierID,
			RecipientID: recipientID,
			Supplier:    supplier,
			Recipient:   recipient,
			Products:    products,
		}
		// clients and products already exist; only the invoice row and the
		// join rows are written
		if err := tx.Omit("Supplier", "Recipient", "Products.*").Create(&invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Get returns an invoice with supplier, recipient, and products preloaded.
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.Preload("Supplier").Preload("Recipient").Preload("Products").First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice %d: %w", id, err)
	}
	return &invoice, nil
}

// List returns all invoices in id order with products preloaded so that
// totals can be computed for display.
func (s *InvoiceService) List() ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := s.db.Preload("Products").Order("id").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// Delete removes the invoice and its product associations. Client and
// product rows are untouched.
func (s *InvoiceService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		err := tx.First(&invoice, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get invoice %d: %w", id, err)
		}
		if err := tx.Model(&invoice).Association("Products").Clear(); err != nil {
			return fmt.Errorf("clear invoice products: %w", err)
		}
		if err := tx.Delete(&invoice).Error; err != nil {
			return fmt.Errorf("delete invoice %d: %w", id, err)
		}
		return nil
	})
}
