package model

// StructuredFilter is the language model's reading of a free-text query.
// Nil fields are unconstrained.
type StructuredFilter struct {
	Location *string  `json:"location,omitempty"`
	Category *string  `json:"category,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	MustHave []string `json:"must_have,omitempty"` // trimmed, lower-cased facility names
}

// ListingFilter holds the plain listing endpoint's query parameters
type ListingFilter struct {
	CategoryID string `form:"category_id"`
	Search     string `form:"search"`
}
