package models

// WorkDescriptor is the parsed form of a record's work.json: the
// descriptive metadata the legacy repository exported for one work.
//
// Every export document is mapped into one of these structures first,
// then the pipeline builds import items from this representation.
type WorkDescriptor struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Language      string   `json:"language,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Doctype       string   `json:"doctype,omitempty"`
	Degree        string   `json:"degree,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Depositor     string   `json:"depositor,omitempty"`
	Source        string   `json:"source,omitempty"`
	RelatedURL    string   `json:"related_url,omitempty"`
	Sponsors      []string `json:"sponsors,omitempty"`
}

// RightsDescriptor is the parsed form of rights.json.
type RightsDescriptor struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// EmbargoDescriptor is the parsed form of embargo.json. Dates are
// RFC3339 or plain 2006-01-02 strings; DeactivationDate is empty while
// the embargo has never been lifted.
type EmbargoDescriptor struct {
	ReleaseDate      string `json:"release_date,omitempty"`
	DeactivationDate string `json:"deactivation_date,omitempty"`
	DuringVisibility string `json:"during_visibility,omitempty"`
	AfterVisibility  string `json:"after_visibility,omitempty"`
}

// VisibilityDescriptor is the parsed form of visibility.json.
type VisibilityDescriptor struct {
	Visibility string `json:"visibility"`
}

// Visibility values used by the legacy exports.
const (
	VisibilityOpen       = "open"
	VisibilityCampus     = "campus"
	VisibilityRestricted = "restricted"
)
