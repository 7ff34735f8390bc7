package domain

// Answer is the terminal artifact of a pipeline run. It is built once and
// never mutated after being returned.
type Answer struct {
	Text       string            `json:"text"`
	Query      string            `json:"query"`
	TotalFound int               `json:"total_found"`
	Items      []Record          `json:"items"`
	Meta       map[string]string `json:"meta,omitempty"`
	Category   string            `json:"category,omitempty"`
}
