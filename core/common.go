package core

// Kind is a named category of records in the document store.
type Kind string

// all kinds served by this backend
const (
	KindUsers     Kind = "users"
	KindUnicorns  Kind = "unicorns"
	KindBlessings Kind = "blessings"
	KindBoats     Kind = "boats"
	KindLoads     Kind = "loads"
)

// Kinds returns all kinds served by this backend.
func Kinds() []Kind {
	return []Kind{KindUsers, KindUnicorns, KindBlessings, KindBoats, KindLoads}
}

// Singular returns the singular form of a kind, as used in route variables
// and error messages. Example: "blessings" becomes "blessing".
func (k Kind) Singular() string {
	s := string(k)
	if len(s) > 1 && s[len(s)-1] == 's' {
		return s[:len(s)-1]
	}
	return s
}

// Operation represents a backend storage operation, one of Create, Read, Update, Delete, List
type Operation string

// all supported store operations
const (
	OperationCreate Operation = "create"
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationList   Operation = "list"
)
