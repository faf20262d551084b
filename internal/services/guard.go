package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dmoraru/facturo/internal/models"
)

// Deletion guard: pure queries resolving the first invoice that still
// references a client or product. A nil invoice means deletion may proceed.

func clientBlockedBy(tx *gorm.DB, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.Where("supplier_id = ? OR recipient_id = ?", id, id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func productBlockedBy(tx *gorm.DB, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.
		Joins("JOIN invoice_products ON invoice_products.invoice_id = invoices.id").
		Where("invoice_products.product_id = ?", id).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
