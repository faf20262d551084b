package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a delete or lookup targets a nonexistent id.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed or missing input field. Callers are
// expected to report it and re-prompt; it is never fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnknownClientError is returned by invoice assembly when the supplier or
// recipient id does not resolve to a stored client.
type UnknownClientError struct {
	Role string // "supplier" or "recipient"
	ID   uint
}

func (e *UnknownClientError) Error() string {
	return fmt.Sprintf("unknown %s client id %d", e.Role, e.ID)
}

// UnknownProductsError names the requested product ids that do not exist.
type UnknownProductsError struct {
	IDs []uint
}

func (e *UnknownProductsError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return "unknown product ids " + strings.Join(parts, ", ")
}

// ReferentialConflictError is returned when a client or product cannot be
// deleted because an invoice still references it.
type ReferentialConflictError struct {
	Entity        string // "client" or "product"
	ID            uint
	InvoiceNumber string
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("%s %d is referenced by invoice %s", e.Entity, e.ID, e.InvoiceNumber)
}
