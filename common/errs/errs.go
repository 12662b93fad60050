package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested distributor or referred user does not exist.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when the input is malformed (negative amount, unknown point kind, missing target).
	InvalidArgument = ErrorKind("Invalid Argument")

	// Conflict is returned when a unique field (wallet address, referral code) is already taken.
	Conflict = ErrorKind("Conflict")

	// Cycle is returned when an upline assignment would create a loop in the referral tree.
	Cycle = ErrorKind("Upline Cycle")

	// Storage is returned when the ledger store fails. The enclosing transaction is rolled back.
	Storage = ErrorKind("Storage Failure")

	Unauthorized       = ErrorKind("Unauthorized")
	Forbidden          = ErrorKind("Forbidden")
	Timeout            = ErrorKind("Timeout")
	Unsupported        = ErrorKind("Unsupported")
	SomethingWentWrong = ErrorKind("Something Went Wrong")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
