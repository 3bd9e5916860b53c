package schema

import (
	"fmt"

	"github.com/joseph-ayodele/sales-tracker/constants"
)

// AliasTable declares which normalized header names supply each logical field.
type AliasTable struct {
	aliases map[constants.Field][]string
	lookup  map[string]constants.Field
}

// NewAliasTable builds a table from raw aliases. Aliases are normalized; an alias claimed by two
// fields is rejected. Fields without aliases cannot be resolved.
func NewAliasTable(raw map[constants.Field][]string) (*AliasTable, error) {
	t := &AliasTable{
		aliases: make(map[constants.Field][]string, len(raw)),
		lookup:  make(map[string]constants.Field),
	}
	for f := range raw {
		if _, ok := constants.ParseField(string(f)); !ok {
			return nil, fmt.Errorf("alias table: unknown field %q", f)
		}
	}
	// Walk in declared field order so duplicate errors are reproducible.
	for _, f := range constants.AllFields() {
		names, ok := raw[f]
		if !ok {
			continue
		}
		for _, name := range names {
			n := Normalize(name)
			if n == "" {
				return nil, fmt.Errorf("alias table: empty alias for field %q", f)
			}
			if owner, dup := t.lookup[n]; dup {
				if owner == f {
					continue
				}
				return nil, fmt.Errorf("alias table: %q is declared for both %q and %q", n, owner, f)
			}
			t.lookup[n] = f
			t.aliases[f] = append(t.aliases[f], n)
		}
	}
	return t, nil
}

// DefaultAliasTable accepts the Spanish column names of the sales sheet plus English equivalents.
func DefaultAliasTable() *AliasTable {
	t, err := NewAliasTable(constants.DefaultAliases)
	if err != nil {
		panic(err)
	}
	return t
}

// FieldFor returns the field a header supplies.
func (t *AliasTable) FieldFor(header string) (constants.Field, bool) {
	f, ok := t.lookup[Normalize(header)]
	return f, ok
}

// Canonical returns the name a field is reported under: its first alias, or the field name itself.
func (t *AliasTable) Canonical(f constants.Field) string {
	if names := t.aliases[f]; len(names) > 0 {
		return names[0]
	}
	return string(f)
}

// Aliases returns the normalized aliases of a field.
func (t *AliasTable) Aliases(f constants.Field) []string {
	return append([]string(nil), t.aliases[f]...)
}

// Merge returns a table where fields present in override replace the receiver's aliases.
func (t *AliasTable) Merge(override map[constants.Field][]string) (*AliasTable, error) {
	raw := make(map[constants.Field][]string, len(t.aliases))
	for f, names := range t.aliases {
		raw[f] = names
	}
	for f, names := range override {
		raw[f] = names
	}
	return NewAliasTable(raw)
}
