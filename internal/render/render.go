// Package render formats an invoice into the fixed-width text document
// emitted by the ledger. Rendering works on an immutable snapshot so the
// output cannot be affected by later catalog changes.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmoraru/facturo/internal/models"
)

// Party is a snapshot of one client block on the document.
type Party struct {
	Name    string
	Address string
	TaxID   string
}

// Line is one rendered item row. TVA is rounded per line, independently of
// the invoice-level figure.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	TVA       decimal.Decimal
}

// Document is a self-contained view of an invoice, detached from storage.
type Document struct {
	Number        string
	IssueDate     time.Time
	Buyer         Party
	Supplier      Party
	Lines         []Line
	QuantityTotal int
	UnitPriceSum  decimal.Decimal
	Subtotal      decimal.Decimal
	TVA           decimal.Decimal
	Total         decimal.Decimal
}

// Snapshot captures an invoice and its resolved clients and products.
// Supplier, Recipient, and Products must be preloaded.
func Snapshot(inv *models.Invoice) Document {
	doc := Document{
		Number:       inv.Number,
		IssueDate:    inv.IssueDate,
		Buyer:        Party{Name: inv.Recipient.Name, Address: inv.Recipient.Address, TaxID: inv.Recipient.TaxID},
		Supplier:     Party{Name: inv.Supplier.Name, Address: inv.Supplier.Address, TaxID: inv.Supplier.TaxID},
		UnitPriceSum: decimal.Zero,
		Subtotal:     inv.Subtotal(),
		TVA:          inv.TVA(),
		Total:        inv.Total(),
	}
	for i := range inv.Products {
		p := inv.Products[i]
		doc.Lines = append(doc.Lines, Line{
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Total:     p.LineTotal(),
			TVA:       p.LineTVA(),
		})
		doc.QuantityTotal += p.Quantity
		doc.UnitPriceSum = doc.UnitPriceSum.Add(p.UnitPrice)
	}
	return doc
}

// Filename is the artifact name for this document.
func (d Document) Filename() string {
	return "Factura_" + d.Number + ".txt"
}

const rule = 80

// Render produces the fixed-width two-column layout: header, buyer/supplier
// blocks, item table, totals row, and the amount due. Monetary values are
// printed with 2 decimals.
func (d Document) Render() string {
	lines := []string{
		fmt.Sprintf("%30sFactura #%s", "", d.Number),
		"Data facturii: " + d.IssueDate.Format("02.01.2006"),
		"",
		fmt.Sprintf("%-30s %-30s %-30s", "CUMPĂRĂTOR", "", "FURNIZOR"),
		fmt.Sprintf("%-30s %-30s %-30s", d.Buyer.Name, "", d.Supplier.Name),
		fmt.Sprintf("%-30s %-30s %-30s", d.Buyer.Address, "", d.Supplier.Address),
		fmt.Sprintf("%-30s %-30s %-30s", "Reg. com.: [Nr.Reg.Comertului]", "", "Reg. com.: [Nr.Reg.Comertului]"),
		fmt.Sprintf("%-30s %-30s %-30s", "CIF: "+d.Buyer.TaxID, "", "CIF: "+d.Supplier.TaxID),
		"",
		fmt.Sprintf("%-30s %-5s %-12s %-10s %-10s", "DENUMIRE", "CANT.", "PREȚ UNITAR", "TOTAL", "TVA"),
		strings.Repeat("-", rule),
	}

	for _, l := range d.Lines {
		lines = append(lines, fmt.Sprintf("%-30s %-5d %-12s %-10s %-10s",
			l.Name, l.Quantity, l.UnitPrice.StringFixed(2), l.Total.StringFixed(2), l.TVA.StringFixed(2)))
	}

	lines = append(lines,
		strings.Repeat("-", rule),
		fmt.Sprintf("%-30s %-5d %-12s %-10s %-10s",
			"TOTAL", d.QuantityTotal, d.UnitPriceSum.StringFixed(2), d.Subtotal.StringFixed(2), d.TVA.StringFixed(2)),
		"",
		fmt.Sprintf("Total de plată: %10s RON", d.Total.StringFixed(2)),
		"",
	)

	return strings.Join(lines, "\n")
}

// WriteFile persists the rendered document as UTF-8 text under dir and
// returns the full path.
func (d Document) WriteFile(dir string) (string, error) {
	path := filepath.Join(dir, d.Filename())
	if err := os.WriteFile(path, []byte(d.Render()), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
