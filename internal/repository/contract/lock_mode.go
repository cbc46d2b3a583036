package contract

// LockMode selects the row lock taken by a locked read inside a transaction.
type LockMode string

const (
	LockNone   LockMode = ""
	LockShare  LockMode = "SHARE"
	LockUpdate LockMode = "UPDATE"
)
