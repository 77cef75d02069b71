package domain

// Carrier is static reference data describing a haulier.
type Carrier struct {
	Name           string   `json:"name" yaml:"name"`
	Capabilities   []string `json:"capabilities" yaml:"capabilities"`
	Certifications []string `json:"certifications" yaml:"certifications"`
	ServiceAreas   []string `json:"service_areas" yaml:"service_areas"`
	Specialties    []string `json:"specialties" yaml:"specialties"`
}

// CarrierSuggestion is a scored carrier with the reasons behind its score.
type CarrierSuggestion struct {
	Name           string
	Capabilities   []string
	Certifications []string
	ServiceAreas   []string
	Score          int
	Reasons        []string
}
