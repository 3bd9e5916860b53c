package query

import (
	"context"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

// ContactSource yields the contacts known for a customer.
type ContactSource interface {
	ContactsFor(ctx context.Context, customerID string) ([]entity.Contact, error)
}

// Lister is the read side of a contact register.
type Lister interface {
	List(ctx context.Context, customerID string) ([]entity.Contact, error)
}

// ContactsFor asks source for a customer's contacts and never returns nil on success.
func ContactsFor(ctx context.Context, customerID string, source ContactSource) ([]entity.Contact, error) {
	if source == nil {
		return []entity.Contact{}, nil
	}
	out, err := source.ContactsFor(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Contact{}
	}
	return out, nil
}

// DatasetContacts projects contacts out of the uploaded rows.
type DatasetContacts struct {
	records []entity.TypedRecord
}

func NewDatasetContacts(records []entity.TypedRecord) *DatasetContacts {
	return &DatasetContacts{records: records}
}

// ContactsFor returns distinct non-empty contacts in the order first seen.
func (d *DatasetContacts) ContactsFor(_ context.Context, customerID string) ([]entity.Contact, error) {
	seen := make(map[entity.Contact]struct{})
	out := make([]entity.Contact, 0)
	for _, r := range d.records {
		if r.CustomerID != customerID {
			continue
		}
		c := entity.Contact{CustomerID: customerID, Name: r.DisplayName, Email: r.Email, Phone: r.Phone}
		if c.IsEmpty() {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// RegisterContacts reads contacts entered during the session.
type RegisterContacts struct {
	register Lister
}

func NewRegisterContacts(register Lister) *RegisterContacts {
	return &RegisterContacts{register: register}
}

func (r *RegisterContacts) ContactsFor(ctx context.Context, customerID string) ([]entity.Contact, error) {
	return r.register.List(ctx, customerID)
}

// ChainedContacts concatenates sources in order.
type ChainedContacts []ContactSource

func ChainContacts(sources ...ContactSource) ChainedContacts {
	return ChainedContacts(sources)
}

func (c ChainedContacts) ContactsFor(ctx context.Context, customerID string) ([]entity.Contact, error) {
	out := make([]entity.Contact, 0)
	for _, src := range c {
		cs, err := src.ContactsFor(ctx, customerID)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}
