package schema

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/sales-tracker/constants"
)

// MissingFieldsError lists every required field no header supplies.
type MissingFieldsError struct {
	Missing []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Columns maps each resolved field to the normalized header that supplies it.
type Columns map[constants.Field]string

// Has reports whether the field was found in the sheet.
func (c Columns) Has(f constants.Field) bool {
	_, ok := c[f]
	return ok
}

// Resolve maps headers onto fields through the alias table and checks that every required
// field is present. When several headers supply the same field the leftmost wins.
// The error is a *MissingFieldsError naming all absent fields in required order.
func Resolve(headers []string, required []constants.Field, table *AliasTable) (Columns, error) {
	if table == nil {
		table = DefaultAliasTable()
	}
	cols := make(Columns)
	for _, h := range headers {
		n := Normalize(h)
		if n == "" {
			continue
		}
		f, ok := table.FieldFor(n)
		if !ok || cols.Has(f) {
			continue
		}
		cols[f] = n
	}

	var missing []string
	for _, f := range required {
		if !cols.Has(f) {
			missing = append(missing, table.Canonical(f))
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Missing: missing}
	}
	return cols, nil
}

// Validate is Resolve without the column mapping.
func Validate(headers []string, required []constants.Field, table *AliasTable) error {
	_, err := Resolve(headers, required, table)
	return err
}
