package errs

// Sentinel categories shared by the usecase and transport layers.
// Concrete errors are marked with one of these and keep their own message.
var (
	ErrNotFound   = New("not found")
	ErrConflict   = New("conflict")
	ErrValidation = New("validation failed")

	// Inbound payload could not be decoded or is missing required fields.
	ErrMalformedMessage = New("malformed message")

	// Broker send failed; the outbox record stays pending.
	ErrTransientPublish = New("transient publish failure")
)
