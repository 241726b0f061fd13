// Package schema validates the value types of loosely typed field maps.
//
// A Schema maps field names to a Type. Validation only inspects fields that are
// present: presence rules belong to the caller. Numbers may arrive as Go
// numeric types, json.Number or numeric strings, matching what JSON, YAML and
// form decoders produce.
//
//	s := schema.Schema{
//	    "purchase_price": schema.Number(),
//	    "year_built":     schema.Int(),
//	}
//	if err := schema.Validate(s, data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) { ... }
//	}
//
// Property is the schema of a domain.PropertyInput.
package schema
