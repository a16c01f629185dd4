package types

// FieldCategory is the semantic meaning inferred for a form control.
type FieldCategory string

// Field categories in classifier priority order.
const (
	CategoryEmail        FieldCategory = "email"
	CategoryPhone        FieldCategory = "phone"
	CategoryPhoneCountry FieldCategory = "phone_country"
	CategoryFirstName    FieldCategory = "first_name"
	CategoryLastName     FieldCategory = "last_name"
	CategoryFullName     FieldCategory = "full_name"
	CategoryAddress      FieldCategory = "address"
	CategoryCity         FieldCategory = "city"
	CategoryState        FieldCategory = "state"
	CategoryPostalCode   FieldCategory = "postal_code"
	CategoryCountry      FieldCategory = "country"
	CategoryLinkedIn     FieldCategory = "linkedin"
	CategoryGitHub       FieldCategory = "github"
	CategoryPortfolio    FieldCategory = "portfolio"
	CategoryTwitter      FieldCategory = "twitter"
	CategoryCompany      FieldCategory = "current_company"
	CategoryJobTitle     FieldCategory = "current_title"
	CategorySchool       FieldCategory = "school"
	CategoryDegree       FieldCategory = "degree"
	CategoryWorkAuth     FieldCategory = "work_authorization"
	CategorySponsorship  FieldCategory = "sponsorship"
	CategoryGender       FieldCategory = "gender"
	CategoryDisability   FieldCategory = "disability"
	CategoryVeteran      FieldCategory = "veteran"
	CategoryEthnicity    FieldCategory = "ethnicity"
	CategorySkills       FieldCategory = "skills"
	CategorySummary      FieldCategory = "summary"
	CategoryCoverLetter  FieldCategory = "cover_letter"
)

// ClassificationResult is the classifier's decision for one control.
// A nil Category means the control is left untouched.
type ClassificationResult struct {
	Category FieldCategory `json:"category,omitempty"`
	Value    string        `json:"value,omitempty"`
	// Candidates is the ordered synonym set handed to the dropdown
	// matcher for select controls; first entry is preferred.
	Candidates []string `json:"candidates,omitempty"`
	// Generated marks values produced by the LLM fallback rather
	// than read from the profile.
	Generated bool `json:"generated,omitempty"`
}

// Matched reports whether the classifier found a category for the field.
func (r *ClassificationResult) Matched() bool {
	return r != nil && r.Category != ""
}

// FieldReport records the outcome for one control in a fill pass.
type FieldReport struct {
	Ref      string        `json:"ref"`
	Label    string        `json:"label,omitempty"`
	Category FieldCategory `json:"category,omitempty"`
	Value    string        `json:"value,omitempty"`
	Filled   bool          `json:"filled"`
	Reason   string        `json:"reason,omitempty"`
}

// FillReport aggregates the outcome of a full fill pass. The pass
// always completes; failures are reported per field, never thrown.
type FillReport struct {
	Status      string        `json:"status"`
	Filled      bool          `json:"filled"`
	FilledCount int           `json:"filled_count"`
	Fields      []FieldReport `json:"fields"`
}

// Add appends a field outcome and updates the aggregate counters.
func (r *FillReport) Add(fr FieldReport) {
	r.Fields = append(r.Fields, fr)
	if fr.Filled {
		r.FilledCount++
		r.Filled = true
	}
}

// FillRequest is the request payload that starts a fill pass.
type FillRequest struct {
	Profile        *Profile `json:"profile" validate:"required"`
	URL            string   `json:"url,omitempty" validate:"omitempty,url"`
	ResumeText     string   `json:"resume_text,omitempty"`
	CoverLetter    string   `json:"cover_letter,omitempty"`
	JobDescription string   `json:"job_description,omitempty"`
}
