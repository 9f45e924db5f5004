package types

// FeatureTuple is the flat extraction result shared by every entity kind.
// Extraction is total: malformed entities produce zero-valued tuples, and
// empty components stay empty rather than carrying placeholders.
type FeatureTuple struct {
	EntityID string `json:"entity_id"`
	Kind     Kind   `json:"kind"`
	Name     string `json:"name,omitempty"`

	// Scalar features, one value per category
	Role     string `json:"role,omitempty"`     // Person role, company stage, or signal kind
	Company  string `json:"company,omitempty"`  // Person company, company name, or signal subject
	Industry string `json:"industry,omitempty"` // Inferred from keyword tables
	Region   string `json:"region,omitempty"`   // Normalized location bucket

	// Set features
	Signals      []string `json:"signals,omitempty"`      // Signal kinds attached to the entity
	Highlights   []string `json:"highlights,omitempty"`   // Achievement and traction notes
	Affiliations []string `json:"affiliations,omitempty"` // Schools, past employers, communities

	// Free text, input to the embedder
	Text string `json:"text,omitempty"`
}

// IsZero reports whether extraction produced no usable features.
func (t FeatureTuple) IsZero() bool {
	return t.Role == "" && t.Company == "" && t.Industry == "" && t.Region == "" &&
		len(t.Signals) == 0 && len(t.Highlights) == 0 && len(t.Affiliations) == 0 &&
		t.Text == ""
}
