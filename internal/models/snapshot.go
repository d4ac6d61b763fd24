package models

// Snapshot is the canonical dataset: the four workflow collections as one
// consistent value. Mutations never edit a snapshot in place; the workflow
// store computes a full successor snapshot and publishes it atomically.
type Snapshot struct {
	Tutors           []Tutor            `json:"tutors"`
	Applications     []TutorApplication `json:"applications"`
	Documents        []Document         `json:"documents"`
	HardcopyRequests []HardcopyRequest  `json:"hardcopyRequests"`
}

// Clone returns a deep copy so readers never observe shared backing arrays.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	clone := &Snapshot{
		Tutors:           make([]Tutor, len(s.Tutors)),
		Applications:     append([]TutorApplication(nil), s.Applications...),
		Documents:        make([]Document, len(s.Documents)),
		HardcopyRequests: append([]HardcopyRequest(nil), s.HardcopyRequests...),
	}
	for i, tutor := range s.Tutors {
		clone.Tutors[i] = tutor.Clone()
	}
	for i, doc := range s.Documents {
		clone.Documents[i] = doc.Clone()
	}
	return clone
}

// Pagination describes list paging metadata in the response envelope.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	Total     int `json:"total_count"`
	TotalPage int `json:"total_pages,omitempty"`
}
