package service

// SchemaError rejects a single submitted record, either because it is not
// well-formed JSON or because it breaks a holding rule.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return e.Err.Error() }

func (e *SchemaError) Unwrap() error { return e.Err }
