package model

// Project is the `project` object of a CoLRev settings.json.
//
// Values are replaced wholesale, never mutated in place: an edit produces a
// shallow copy with one field swapped. Slices may therefore be shared between
// consecutive values and must be treated as read-only.
type Project struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`

	Keywords []string `json:"keywords"`
	Protocol *string  `json:"protocol"`

	ReviewType   string `json:"review_type"`
	IDPattern    string `json:"id_pattern"`
	ShareStatReq string `json:"share_stat_req"`

	DelayAutomatedProcessing bool `json:"delay_automated_processing"`

	CurationURL       *string  `json:"curation_url"`
	CuratedMasterdata bool     `json:"curated_masterdata"`
	CuratedFields     []string `json:"curated_fields"`
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns *s, or "" when s is nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
