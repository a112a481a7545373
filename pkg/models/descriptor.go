package models

// PersonDescriptor is the parsed form of an author-<n>.json or
// contributor-<n>.json document: one person mention on one work, exactly
// as the legacy repository recorded it.
type PersonDescriptor struct {
	ComputingID string `json:"computing_id,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Department  string `json:"department,omitempty"`
	Institution string `json:"institution,omitempty"`
	ORCID       string `json:"orcid,omitempty"`
}

// Empty reports whether the descriptor carries no usable fields at all.
func (p PersonDescriptor) Empty() bool {
	return p.ComputingID == "" && p.FirstName == "" && p.LastName == "" &&
		p.Department == "" && p.Institution == ""
}

// FilesetDescriptor is the parsed form of a fileset-<n>.json document.
// Name is the bitstream filename the destination should see, Source the
// opaque content-file name inside the export bundle.
type FilesetDescriptor struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Label  string `json:"label,omitempty"`
}
