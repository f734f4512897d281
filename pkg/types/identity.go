// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ChemicalIdentity is the property bundle the identity service returns for a
// resolved compound. Numeric fields are pointers because the service omits
// them for some compounds; absence is a valid terminal state.
type ChemicalIdentity struct {
	// CanonicalName is the service's normalized name, used as the
	// authoritative label and as the alias-expansion seed.
	CanonicalName string `json:"canonical_name" yaml:"canonical_name"`

	// IUPACName is the systematic name.
	IUPACName string `json:"iupac_name,omitempty" yaml:"iupac_name,omitempty"`

	Formula  string `json:"formula,omitempty" yaml:"formula,omitempty"`
	SMILES   string `json:"smiles,omitempty" yaml:"smiles,omitempty"`
	InChIKey string `json:"inchi_key,omitempty" yaml:"inchi_key,omitempty"`

	MolecularWeight  *float64 `json:"molecular_weight,omitempty" yaml:"molecular_weight,omitempty"`
	ExactMass        *float64 `json:"exact_mass,omitempty" yaml:"exact_mass,omitempty"`
	PolarSurfaceArea *float64 `json:"polar_surface_area,omitempty" yaml:"polar_surface_area,omitempty"`
	LogP             *float64 `json:"log_p,omitempty" yaml:"log_p,omitempty"`

	// CompoundID is the service's numeric compound identifier; zero means
	// the compound was never resolved (see UnknownIdentity).
	CompoundID int64 `json:"compound_id,omitempty" yaml:"compound_id,omitempty"`

	// Synonyms is a bounded prefix of the service's synonym list.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	// ImageRef is a URL for the structure depiction, when available.
	ImageRef string `json:"image_ref,omitempty" yaml:"image_ref,omitempty"`
}

// Polarity derives a polarity indicator by sign-inverting the lipophilicity
// value, or nil when LogP is absent.
func (c ChemicalIdentity) Polarity() *float64 {
	if c.LogP == nil {
		return nil
	}
	p := -*c.LogP
	return &p
}

// UnknownIdentity is the placeholder paired with a selected analyte whose
// enrichment failed. The name is echoed so the selection still reflects user
// intent; every other field stays zero.
func UnknownIdentity(name string) ChemicalIdentity {
	return ChemicalIdentity{CanonicalName: name}
}

// IsUnknown reports whether the identity is an enrichment placeholder rather
// than a resolved compound.
func (c ChemicalIdentity) IsUnknown() bool {
	return c.CompoundID == 0
}
