package domain

// Record is a typed projection of a dataset row. Concrete types are
// per-kind structs; the relevance score is set at most once after filtering.
type Record interface {
	RecordKind() Kind
	Relevance() *float64
	SetRelevance(score float64)
}

// scored carries the optional relevance score shared by all record types.
type scored struct {
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

func (s *scored) Relevance() *float64 { return s.RelevanceScore }

func (s *scored) SetRelevance(score float64) { s.RelevanceScore = &score }

// Contractor is a row of the contractors dataset.
type Contractor struct {
	Name          string `json:"name"`
	WorkTypes     string `json:"work_types"`
	ContactPerson string `json:"contact_person,omitempty"`
	Contacts      string `json:"contacts,omitempty"`
	Website       string `json:"website,omitempty"`
	Projects      string `json:"projects,omitempty"`
	Comments      string `json:"comments,omitempty"`
	PrimaryInfo   string `json:"primary_info,omitempty"`
	StaffSize     string `json:"staff_size,omitempty"`
	scored
}

func (*Contractor) RecordKind() Kind { return KindContractors }

// Risk is a row of the project risks dataset.
type Risk struct {
	ProjectID    string `json:"project_id"`
	ProjectType  string `json:"project_type"`
	ProjectName  string `json:"project_name"`
	RiskText     string `json:"risk_text"`
	RiskPriority string `json:"risk_priority,omitempty"`
	Status       string `json:"status,omitempty"`
	scored
}

func (*Risk) RecordKind() Kind { return KindRisks }

// ProjectError is a row of the project errors dataset.
type ProjectError struct {
	Date        string `json:"date,omitempty"`
	Responsible string `json:"responsible,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description"`
	Measures    string `json:"measures,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Project     string `json:"project"`
	Stage       string `json:"stage,omitempty"`
	Category    string `json:"category,omitempty"`
	scored
}

func (*ProjectError) RecordKind() Kind { return KindErrors }

// Process is a row of the business processes dataset.
type Process struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	JSONFile        string `json:"json_file,omitempty"`
	TextDescription string `json:"text_description,omitempty"`
	scored
}

func (*Process) RecordKind() Kind { return KindProcesses }
