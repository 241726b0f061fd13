package schema

import "sort"

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate checks every present, non-nil field of data that the schema
// declares. Fields are reported in name order.
func Validate(schema Schema, data map[string]any) error {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		value, ok := data[key]
		if !ok || value == nil {
			continue
		}
		if err := schema[key].Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
