package errs

// Sentinels shared by the command and query sides
var (
	// Ownership errors
	ErrForbidden = New("resource belongs to another user")

	// Idempotency errors
	ErrIdempotencyInProgress  = New("idempotency in progress")
	ErrIdempotencyKeyReused   = New("idempotency key reused with a different request")
	ErrIdempotencyCheckFailed = New("idempotency check failed")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
