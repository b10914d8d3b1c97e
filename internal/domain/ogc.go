package domain

// Link is an OGC API link object.
type Link struct {
	Rel   string `json:"rel"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title,omitempty"`
	Href  string `json:"href"`
}

// LandingPage is the document served at GET /.
type LandingPage struct {
	Links []Link `json:"links"`
}

// Conformance lists the conformance classes the service implements.
type Conformance struct {
	ConformsTo []string `json:"conformsTo"`
}

// Collection describes one feature collection.
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
}

// Collections is the document served at GET /collections.
type Collections struct {
	Collections []Collection `json:"collections"`
}

// ProcessInput describes one named input of a process.
type ProcessInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Process describes an executable process.
type Process struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Version     string                  `json:"version"`
	Inputs      map[string]ProcessInput `json:"inputs,omitempty"`
	Links       []Link                  `json:"links"`
}

// ProcessList is the document served at GET /processes.
type ProcessList struct {
	Processes []Process `json:"processes"`
	Links     []Link    `json:"links"`
}
