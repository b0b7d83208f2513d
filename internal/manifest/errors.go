package manifest

import "fmt"

// SchemaError is returned when a manifest is missing a mandatory field for
// its detected epoch, or carries a value the codec cannot interpret.
type SchemaError struct {
	Epoch Epoch
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("manifest: epoch %d manifest missing or invalid field %q", e.Epoch, e.Field)
}
