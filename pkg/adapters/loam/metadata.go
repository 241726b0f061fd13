package loam

// ListingMetadata is the frontmatter of a listing document.
//
//	---
//	id: elm-12
//	strategy: Passive Income
//	property:
//	  property_address: 12 Elm St
//	  purchase_price: 475000
//	---
//	Free-form notes.
type ListingMetadata struct {
	// ID overrides the document ID. Extensions are trimmed either way.
	ID       string         `json:"id" mapstructure:"id"`
	Strategy string         `json:"strategy" mapstructure:"strategy"`
	Property map[string]any `json:"property" mapstructure:"property"`
	// Skip excludes the listing from batch runs.
	Skip bool `json:"skip" mapstructure:"skip"`
}
