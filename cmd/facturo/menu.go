package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dmoraru/facturo/internal/render"
	"github.com/dmoraru/facturo/internal/services"
)

// shell is the interactive menu loop. It is pure glue: every action calls
// into the services and reports the outcome; invalid input re-prompts.
type shell struct {
	in        *bufio.Scanner
	out       io.Writer
	clients   *services.ClientService
	products  *services.ProductService
	invoices  *services.InvoiceService
	outputDir string
	log       zerolog.Logger
}

func newShell(in io.Reader, out io.Writer, db *gorm.DB, outputDir string, log zerolog.Logger) *shell {
	return &shell{
		in:        bufio.NewScanner(in),
		out:       out,
		clients:   services.NewClientService(db),
		products:  services.NewProductService(db),
		invoices:  services.NewInvoiceService(db),
		outputDir: outputDir,
		log:       log,
	}
}

func (s *shell) run() {
	for {
		choice := s.prompt("\nIntroduceți cifra opțiunii dorite:\n  1 Clienți\n  2 Produse\n  3 Facturi\n  0 Ieșire\n> ")
		switch choice {
		case "1":
			s.clientMenu()
		case "2":
			s.productMenu()
		case "3":
			s.invoiceMenu()
		case "0", "":
			return
		default:
			s.printf("Opțiunea %q nu există în meniu!\n", choice)
		}
	}
}

func (s *shell) clientMenu() {
	for {
		choice := s.prompt("\nMeniu clienți:\n  1 Adăugare client\n  2 Ștergere client\n  3 Afișare clienți\n  0 Înapoi\n> ")
		switch choice {
		case "1":
			s.addClient()
		case "2":
			s.removeClient()
		case "3":
			s.listClients()
		case "0", "":
			return
		default:
			s.printf("Opțiunea %q nu există în meniul clienți!\n", choice)
		}
	}
}

func (s *shell) productMenu() {
	for {
		choice := s.prompt("\nMeniu produse:\n  1 Adăugare produs\n  2 Ștergere produs\n  3 Afișare produse\n  0 Înapoi\n> ")
		switch choice {
		case "1":
			s.addProduct()
		case "2":
			s.removeProduct()
		case "3":
			s.listProducts()
		case "0", "":
			return
		default:
			s.printf("Opțiunea %q nu există în meniul produse!\n", choice)
		}
	}
}

func (s *shell) invoiceMenu() {
	for {
		choice := s.prompt("\nMeniu facturi:\n  1 Emitere factură\n  2 Ștergere factură\n  3 Afișare facturi\n  4 Generare document\n  0 Înapoi\n> ")
		switch choice {
		case "1":
			s.createInvoice()
		case "2":
			s.deleteInvoice()
		case "3":
			s.listInvoices()
		case "4":
			s.generateDocument()
		case "0", "":
			return
		default:
			s.printf("Opțiunea %q nu există în meniul facturi!\n", choice)
		}
	}
}

func (s *shell) addClient() {
	fields := s.promptFields("Introduceți datele clientului (Nume, CUI, Adresă): ", 3)
	if fields == nil {
		return
	}
	client, err := s.clients.Add(fields[0], fields[1], fields[2])
	if err != nil {
		s.report(err)
		return
	}
	s.printf("Clientul %q a fost adăugat cu id-ul %d.\n", client.Name, client.ID)
}

func (s *shell) removeClient() {
	s.listClients()
	id, ok := s.promptID("Introduceți id-ul clientului de șters: ")
	if !ok {
		return
	}
	if err := s.clients.Remove(id); err != nil {
		s.report(err)
		return
	}
	s.printf("Clientul cu id-ul %d a fost șters.\n", id)
}

func (s *shell) listClients() {
	clients, err := s.clients.List()
	if err != nil {
		s.report(err)
		return
	}
	if len(clients) == 0 {
		s.printf("Nu există niciun client în baza de date.\n")
		return
	}
	for _, c := range clients {
		s.printf("  %d | %s | %s | %s\n", c.ID, c.Name, c.TaxID, c.Address)
	}
}

func (s *shell) addProduct() {
	fields := s.promptFields("Introduceți datele produsului (Nume, Cantitate, Preț unitar): ", 3)
	if fields == nil {
		return
	}
	quantity, err := strconv.Atoi(fields[1])
	if err != nil {
		s.printf("Cantitatea %q nu este un număr valid!\n", fields[1])
		return
	}
	price, err := decimal.NewFromString(fields[2])
	if err != nil {
		s.printf("Prețul %q nu este un număr valid!\n", fields[2])
		return
	}
	product, err := s.products.Add(fields[0], quantity, price)
	if err != nil {
		s.report(err)
		return
	}
	s.printf("Produsul %q a fost adăugat cu id-ul %d.\n", product.Name, product.ID)
}

func (s *shell) removeProduct() {
	s.listProducts()
	id, ok := s.promptID("Introduceți id-ul produsului de șters: ")
	if !ok {
		return
	}
	if err := s.products.Remove(id); err != nil {
		s.report(err)
		return
	}
	s.printf("Produsul cu id-ul %d a fost șters.\n", id)
}

func (s *shell) listProducts() {
	products, err := s.products.List()
	if err != nil {
		s.report(err)
		return
	}
	if len(products) == 0 {
		s.printf("Nu există niciun produs în baza de date.\n")
		return
	}
	for _, p := range products {
		s.printf("  %d | %s | %d buc. | %s RON\n", p.ID, p.Name, p.Quantity, p.UnitPrice.StringFixed(2))
	}
}

func (s *shell) createInvoice() {
	s.printf("Clienți disponibili:\n")
	s.listClients()

	supplierID, ok := s.promptID("Id-ul furnizorului: ")
	if !ok {
		return
	}
	recipientID, ok := s.promptID("Id-ul clientului: ")
	if !ok {
		return
	}

	s.printf("Produse disponibile:\n")
	s.listProducts()
	raw := s.prompt("Id-urile produselor (separate prin virgulă): ")
	var productIDs []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			s.printf("Id-ul %q nu este un număr valid!\n", part)
			return
		}
		productIDs = append(productIDs, uint(id))
	}

	invoice, err := s.invoices.Create(supplierID, recipientID, productIDs)
	if err != nil {
		s.report(err)
		return
	}
	s.printf("Factura %s a fost emisă: subtotal %s RON, total %s RON.\n",
		invoice.Number, invoice.Subtotal().StringFixed(2), invoice.Total().StringFixed(2))
}

func (s *shell) deleteInvoice() {
	s.listInvoices()
	id, ok := s.promptID("Introduceți id-ul facturii de șters: ")
	if !ok {
		return
	}
	if err := s.invoices.Delete(id); err != nil {
		s.report(err)
		return
	}
	s.printf("Factura cu id-ul %d a fost ștearsă.\n", id)
}

func (s *shell) listInvoices() {
	invoices, err := s.invoices.List()
	if err != nil {
		s.report(err)
		return
	}
	if len(invoices) == 0 {
		s.printf("Nu există nicio factură în baza de date.\n")
		return
	}
	for i := range invoices {
		f := &invoices[i]
		s.printf("  %d | %s | %s | subtotal %s RON | total %s RON\n",
			f.ID, f.Number, f.IssueDate.Format("02.01.2006"),
			f.Subtotal().StringFixed(2), f.Total().StringFixed(2))
	}
}

func (s *shell) generateDocument() {
	s.listInvoices()
	id, ok := s.promptID("Introduceți id-ul facturii de generat: ")
	if !ok {
		return
	}
	invoice, err := s.invoices.Get(id)
	if err != nil {
		s.report(err)
		return
	}
	doc := render.Snapshot(invoice)
	path, err := doc.WriteFile(s.outputDir)
	if err != nil {
		s.report(err)
		return
	}
	s.printf("\n%s\n\nFactura a fost salvată în fișierul: %s\n", doc.Render(), path)
}

func (s *shell) prompt(msg string) string {
	fmt.Fprint(s.out, msg)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

// promptFields reads a comma-separated line and requires exactly n fields.
func (s *shell) promptFields(msg string, n int) []string {
	raw := s.prompt(msg)
	parts := strings.Split(raw, ",")
	if len(parts) != n {
		s.printf("Trebuie introduse %d câmpuri separate prin virgulă!\n", n)
		return nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (s *shell) promptID(msg string) (uint, bool) {
	raw := s.prompt(msg)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		s.printf("Id-ul %q nu este un număr valid!\n", raw)
		return 0, false
	}
	return uint(id), true
}

func (s *shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// report translates service errors into user-facing messages; anything
// outside the known taxonomy is logged and shown as an operational failure.
func (s *shell) report(err error) {
	var (
		validation  *services.ValidationError
		unknownCli  *services.UnknownClientError
		unknownProd *services.UnknownProductsError
		conflict    *services.ReferentialConflictError
	)
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.printf("Id-ul introdus nu se află în baza de date!\n")
	case errors.As(err, &validation):
		s.printf("Date invalide: %s.\n", validation.Error())
	case errors.As(err, &unknownCli):
		s.printf("Clientul cu id-ul %d nu se află în baza de date!\n", unknownCli.ID)
	case errors.As(err, &unknownProd):
		s.printf("%s nu se află în baza de date!\n", unknownProd.Error())
	case errors.As(err, &conflict):
		s.printf("Nu se poate șterge: %s %d este folosit de factura %s.\n",
			conflict.Entity, conflict.ID, conflict.InvoiceNumber)
	default:
		s.log.Error().Err(err).Msg("operation failed")
		s.printf("Operațiunea a eșuat: %v\n", err)
	}
}
