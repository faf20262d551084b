package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmoraru/facturo/internal/models"
)

// ProductService is the entity store for products.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// Add validates the fields and persists a new product immediately.
func (s *ProductService) Add(name string, quantity int, unitPrice decimal.Decimal) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) > 30 {
		return nil, &ValidationError{Field: "name", Reason: "must be at most 30 characters"}
	}
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if unitPrice.IsNegative() {
		return nil, &ValidationError{Field: "unit price", Reason: "must not be negative"}
	}

	product := models.Product{Name: name, Quantity: quantity, UnitPrice: unitPrice}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

// List returns all products in id order.
func (s *ProductService) List() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get returns a single product or ErrNotFound.
func (s *ProductService) Get(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// Remove deletes a product unless an invoice still references it, in which
// case the blocking invoice is named in the error.
func (s *ProductService) Remove(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		err := tx.First(&product, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get product %d: %w", id, err)
		}

		blocking, err := productBlockedBy(tx, id)
		if err != nil {
			return fmt.Errorf("check product references: %w", err)
		}
		if blocking != nil {
			return &ReferentialConflictError{Entity: "product", ID: id, InvoiceNumber: blocking.Number}
		}

		return tx.Delete(&product).Error
	})
}
