package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TVARate is the fixed Romanian VAT rate applied to every invoice.
var TVARate = decimal.NewFromFloat(0.19)

// Client is a party on an invoice. The same record can act as the
// supplier on one invoice and the recipient on another.
type Client struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:30;not null"`
	TaxID   string `gorm:"size:20;not null"`
	Address string `gorm:"size:100;not null"`
}

// Product is a catalog entry. Quantity lives on the product itself and is
// used as the line quantity on every invoice referencing it; there is no
// per-invoice quantity (kept for parity with the original ledger, see
// DESIGN.md).
type Product struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:30;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// LineTotal is the pre-VAT amount this product contributes to an invoice.
func (p *Product) LineTotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// LineTVA is the VAT on this product's line, rounded per line. It is not
// reconciled against the invoice-level VAT figure; the two may differ by a
// cent due to rounding.
func (p *Product) LineTVA() decimal.Decimal {
	return p.LineTotal().Mul(TVARate).Round(2)
}

// Invoice links a supplier and a recipient client with a set of products.
// Number is the human-facing sequential identifier (FF0001, FF0002, ...),
// distinct from the internal ID.
type Invoice struct {
	ID          uint      `gorm:"primaryKey"`
	Number      string    `gorm:"size:20;uniqueIndex;not null"`
	IssueDate   time.Time `gorm:"not null"`
	SupplierID  uint      `gorm:"not null"`
	RecipientID uint      `gorm:"not null"`
	Supplier    Client    `gorm:"foreignKey:SupplierID"`
	Recipient   Client    `gorm:"foreignKey:RecipientID"`
	Products    []Product `gorm:"many2many:invoice_products"`
}

// Subtotal sums unit_price × quantity over the attached products, rounded
// to 2 decimals. Products must be preloaded.
func (f *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range f.Products {
		sum = sum.Add(p.LineTotal())
	}
	return sum.Round(2)
}

// TVA is the invoice-level VAT, computed on the subtotal.
func (f *Invoice) TVA() decimal.Decimal {
	return f.Subtotal().Mul(TVARate).Round(2)
}

// Total is the amount due: subtotal plus 19% TVA.
func (f *Invoice) Total() decimal.Decimal {
	return f.Subtotal().Mul(decimal.NewFromInt(1).Add(TVARate)).Round(2)
}
