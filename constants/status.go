package constants

// SessionState is the interaction state of a reporting session.
type SessionState string

const (
	StateNoData           SessionState = "NO_DATA"           // nothing ingested, or the last upload failed
	StateValidated        SessionState = "VALIDATED"         // headers accepted
	StateAggregated       SessionState = "AGGREGATED"        // transactions and summaries ready
	StateProvinceSelected SessionState = "PROVINCE_SELECTED" // ranking filtered to one province
	StateCustomerSelected SessionState = "CUSTOMER_SELECTED" // customer card, history and contacts visible
)

// ContactSource selects where customer contacts come from.
type ContactSource string

const (
	ContactSourceRegister ContactSource = "register" // entered during the session
	ContactSourceDataset  ContactSource = "dataset"  // projected from the uploaded rows
)

// RegisterBackend selects the session contact register implementation.
type RegisterBackend string

const (
	RegisterBackendMemory RegisterBackend = "memory"
	RegisterBackendSQLite RegisterBackend = "sqlite"
)
