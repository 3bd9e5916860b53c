// Package contacts holds the session-scoped contact register.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/sales-tracker/constants"
	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

// Register is an append-only store of contacts keyed by customer id. Entries are returned in
// insertion order and are visible to the next List call.
type Register interface {
	Add(ctx context.Context, c entity.Contact) error
	List(ctx context.Context, customerID string) ([]entity.Contact, error)
	Close() error
}

// ErrClosed is returned by a register used after Close.
var ErrClosed = errors.New("contact register closed")

// Limits on free-text contact fields.
const (
	maxNameLen  = 200
	maxEmailLen = 254
	maxPhoneLen = 50
)

// Normalize trims every field of a contact.
func Normalize(c entity.Contact) entity.Contact {
	return entity.Contact{
		CustomerID: strings.TrimSpace(c.CustomerID),
		Name:       strings.TrimSpace(c.Name),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
	}
}

// Validate checks a normalized contact before it is stored.
func Validate(c entity.Contact) error {
	v := common.NewValidator()
	v.Field("customer_id", c.CustomerID, common.Required)
	v.Field("name", c.Name, common.MaxLength(maxNameLen))
	v.Field("email", c.Email, common.MaxLength(maxEmailLen), common.Email)
	v.Field("phone", c.Phone, common.MaxLength(maxPhoneLen))
	v.Check(!c.IsEmpty(), "contact", "needs a name, email or phone")
	return v.Error()
}

// New opens a register of the given backend.
func New(ctx context.Context, backend constants.RegisterBackend, logger *slog.Logger) (Register, error) {
	switch backend {
	case constants.RegisterBackendMemory, "":
		return NewMemoryRegister(), nil
	case constants.RegisterBackendSQLite:
		return OpenSQLiteRegister(ctx, logger)
	}
	return nil, fmt.Errorf("contact register %q: %w", backend, common.ErrInvalidInput)
}
