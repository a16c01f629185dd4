// Package types defines the shared data model for the apply agent:
// the candidate profile used as the fill source and the per-field
// structures produced during classification and form population.
package types

import "strings"

// Profile is the canonical source-of-truth record for form filling.
// It is created by a human or by the resume extractor and persisted
// externally; the fill engine only reads it.
type Profile struct {
	// Identity
	FirstName    string `json:"first_name" validate:"required_without=FullName"`
	LastName     string `json:"last_name,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	PhoneCountry string `json:"phone_country,omitempty"` // dial code, e.g. "+1"

	// Location
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`

	// Demographic self-identification (optional, free-form)
	Gender           string `json:"gender,omitempty"`
	DisabilityStatus string `json:"disability_status,omitempty"`
	VeteranStatus    string `json:"veteran_status,omitempty"`
	Ethnicity        string `json:"ethnicity,omitempty"`

	// Social links
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub    string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,url"`
	Twitter   string `json:"twitter,omitempty" validate:"omitempty,url"`

	// Free text
	Skills  string `json:"skills,omitempty"`
	Summary string `json:"summary,omitempty"`

	// Authorization
	WorkAuthorized      *bool `json:"work_authorized,omitempty"`
	SponsorshipRequired *bool `json:"sponsorship_required,omitempty"`

	// Ordered sequences. Entry i maps to the i-th created sub-form
	// entry on the target page; order is preserved end-to-end.
	WorkExperience []WorkExperience `json:"work_experience,omitempty"`
	Education      []Education      `json:"education,omitempty"`
	Projects       []Project        `json:"projects,omitempty"`
}

// WorkExperience is one employment entry.
type WorkExperience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"` // or the literal "Present"
	Description string `json:"description,omitempty"`
}

// Education is one education entry.
type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree,omitempty"`
	Field          string `json:"field,omitempty"`
	GraduationDate string `json:"graduation_date,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

// Project is one project entry.
type Project struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Technologies string `json:"technologies,omitempty"`
	URL          string `json:"url,omitempty"`
}

// DisplayName returns the best available full name for the candidate.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	full := strings.TrimSpace(p.FirstName + " " + p.LastName)
	return full
}

// HasIdentity reports whether the profile carries a minimal identity
// signal (a name or an email). Extraction output below this bar is
// rejected rather than saved.
func (p *Profile) HasIdentity() bool {
	return p.DisplayName() != "" || p.Email != ""
}

// IsEmpty reports whether the profile has no usable content at all.
func (p *Profile) IsEmpty() bool {
	return !p.HasIdentity() &&
		len(p.WorkExperience) == 0 &&
		len(p.Education) == 0 &&
		len(p.Projects) == 0
}

// Merge copies non-empty fields from other into p, leaving existing
// values in place. Array sections are replaced only when other has them.
func (p *Profile) Merge(other *Profile) {
	if other == nil {
		return
	}
	mergeStr := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	mergeStr(&p.FirstName, other.FirstName)
	mergeStr(&p.LastName, other.LastName)
	mergeStr(&p.FullName, other.FullName)
	mergeStr(&p.Email, other.Email)
	mergeStr(&p.Phone, other.Phone)
	mergeStr(&p.PhoneCountry, other.PhoneCountry)
	mergeStr(&p.Address, other.Address)
	mergeStr(&p.City, other.City)
	mergeStr(&p.State, other.State)
	mergeStr(&p.PostalCode, other.PostalCode)
	mergeStr(&p.Country, other.Country)
	mergeStr(&p.Gender, other.Gender)
	mergeStr(&p.DisabilityStatus, other.DisabilityStatus)
	mergeStr(&p.VeteranStatus, other.VeteranStatus)
	mergeStr(&p.Ethnicity, other.Ethnicity)
	mergeStr(&p.LinkedIn, other.LinkedIn)
	mergeStr(&p.GitHub, other.GitHub)
	mergeStr(&p.Portfolio, other.Portfolio)
	mergeStr(&p.Twitter, other.Twitter)
	mergeStr(&p.Skills, other.Skills)
	mergeStr(&p.Summary, other.Summary)
	if p.WorkAuthorized == nil {
		p.WorkAuthorized = other.WorkAuthorized
	}
	if p.SponsorshipRequired == nil {
		p.SponsorshipRequired = other.SponsorshipRequired
	}
	if len(p.WorkExperience) == 0 {
		p.WorkExperience = other.WorkExperience
	}
	if len(p.Education) == 0 {
		p.Education = other.Education
	}
	if len(p.Projects) == 0 {
		p.Projects = other.Projects
	}
}
