package constants

// Field is a logical column of the sales sheet, independent of the header text used in a given file.
type Field string

const (
	FieldCustomer  Field = "customer"
	FieldProvince  Field = "province"
	FieldDate      Field = "date"
	FieldVolume    Field = "volume"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
)

// RequiredFields must all be present for a dataset to be accepted, in reporting order.
var RequiredFields = []Field{
	FieldCustomer,
	FieldProvince,
	FieldDate,
	FieldVolume,
}

// OptionalFields carry contact data when the sheet has it.
var OptionalFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
}

// AllFields lists required then optional fields.
func AllFields() []Field {
	out := make([]Field, 0, len(RequiredFields)+len(OptionalFields))
	out = append(out, RequiredFields...)
	return append(out, OptionalFields...)
}

// DefaultAliases maps each field to the header names accepted for it.
// The first alias is the canonical column name used in error reports.
var DefaultAliases = map[Field][]string{
	FieldCustomer:  {"cliente", "customer", "customer_id", "id_cliente"},
	FieldProvince:  {"provincia", "province"},
	FieldDate:      {"fecha", "date", "fecha_compra"},
	FieldVolume:    {"kw", "volume", "volumen", "volume_kw"},
	FieldFirstName: {"nombre", "first_name", "firstname"},
	FieldLastName:  {"apellido", "apellidos", "last_name", "lastname"},
	FieldEmail:     {"email", "correo", "e-mail"},
	FieldPhone:     {"telefono", "teléfono", "phone", "tel"},
}

// ParseField returns the Field for a logical name such as "customer".
func ParseField(name string) (Field, bool) {
	for _, f := range AllFields() {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}
