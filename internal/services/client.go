package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/dmoraru/facturo/internal/models"
)

// ClientService is the entity store for clients. A client acts as the
// supplier or the recipient on invoices; both roles share this record.
type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// Add validates the fields and persists a new client immediately.
func (s *ClientService) Add(name, taxID, address string) (*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len([]rune(name)) > 30 {
		return nil, &ValidationError{Field: "name", Reason: "must be at most 30 characters"}
	}
	if len([]rune(taxID)) > 20 {
		return nil, &ValidationError{Field: "tax id", Reason: "must be at most 20 characters"}
	}
	if len([]rune(address)) > 100 {
		return nil, &ValidationError{Field: "address", Reason: "must be at most 100 characters"}
	}

	client := models.Client{Name: name, TaxID: strings.TrimSpace(taxID), Address: strings.TrimSpace(address)}
	if err := s.db.Create(&client).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &client, nil
}

// List returns all clients in id order.
func (s *ClientService) List() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// Get returns a single client or ErrNotFound.
func (s *ClientService) Get(id uint) (*models.Client, error) {
	var client models.Client
	err := s.db.First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client %d: %w", id, err)
	}
	return &client, nil
}

// Remove deletes a client unless an invoice still references it as supplier
// or recipient, in which case the blocking invoice is named in the error.
func (s *ClientService) Remove(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		err := tx.First(&client, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get client %d: %w", id, err)
		}

		blocking, err := clientBlockedBy(tx, id)
		if err != nil {
			return fmt.Errorf("check client references: %w", err)
		}
		if blocking != nil {
			return &ReferentialConflictError{Entity: "client", ID: id, InvoiceNumber: blocking.Number}
		}

		return tx.Delete(&client).Error
	})
}
