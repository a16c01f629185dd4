// Package sections grows and fills repeating sub-forms (work history,
// education, projects) whose entry count is unknown ahead of time:
// entries are created by triggering "Add" affordances and newly
// rendered fields are discovered by re-querying and differencing.
package sections

import "github.com/jonathan/apply-agent/internal/types"

// Kind identifies a repeating entity type.
type Kind string

// Supported repeating entity types.
const (
	KindWork      Kind = "work"
	KindEducation Kind = "education"
	KindProjects  Kind = "projects"
)

// headingSynonymSets maps each kind to the heading texts that locate
// its section.
var headingSynonymSets = map[Kind][]string{
	KindWork: {
		"work experience", "employment history", "work history",
		"professional experience", "experience", "employment",
	},
	KindEducation: {
		"education history", "academic history", "education", "academic background",
	},
	KindProjects: {
		"personal projects", "side projects", "projects", "portfolio",
	},
}

// entitySynonymSets maps each kind to the words an "Add" control
// combines with an add synonym.
var entitySynonymSets = map[Kind][]string{
	KindWork:      {"experience", "employment", "work", "position", "job"},
	KindEducation: {"education", "school", "degree"},
	KindProjects:  {"project"},
}

// HeadingSynonyms returns the section heading synonyms for a kind.
func HeadingSynonyms(kind Kind) []string { return headingSynonymSets[kind] }

// EntitySynonyms returns the add-control entity synonyms for a kind.
func EntitySynonyms(kind Kind) []string { return entitySynonymSets[kind] }

// Attribute is one data field of a repeating entry together with the
// scoring signals used to pick its target control.
type Attribute struct {
	Key      string
	Value    string
	Keywords []string
	Anti     []string
	// WantDate and WantLong bias scoring toward date controls and
	// textareas respectively.
	WantDate bool
	WantLong bool
}

// WorkAttributes converts a work entry into its ordered attributes.
func WorkAttributes(w types.WorkExperience) []Attribute {
	return compact([]Attribute{
		{Key: "company", Value: w.Company,
			Keywords: []string{"company", "employer", "organization", "organisation"},
			Anti:     []string{"school", "university"}},
		{Key: "title", Value: w.Title,
			Keywords: []string{"title", "role", "position"}},
		{Key: "location", Value: w.Location,
			Keywords: []string{"location", "city", "where"}},
		{Key: "startDate", Value: w.StartDate, WantDate: true,
			Keywords: []string{"start", "from", "begin"},
			Anti:     []string{"end", "until", "to "}},
		{Key: "endDate", Value: w.EndDate, WantDate: true,
			Keywords: []string{"end", "until", "to "},
			Anti:     []string{"start", "from", "begin"}},
		{Key: "description", Value: w.Description, WantLong: true,
			Keywords: []string{"description", "responsibilities", "duties", "summary", "accomplishments", "details"}},
	})
}

// EducationAttributes converts an education entry into its ordered
// attributes.
func EducationAttributes(e types.Education) []Attribute {
	return compact([]Attribute{
		{Key: "institution", Value: e.Institution,
			Keywords: []string{"school", "university", "college", "institution"},
			Anti:     []string{"company", "employer"}},
		{Key: "degree", Value: e.Degree,
			Keywords: []string{"degree", "qualification", "level"}},
		{Key: "field", Value: e.Field,
			Keywords: []string{"major", "field", "discipline", "concentration", "study"}},
		{Key: "graduationDate", Value: e.GraduationDate, WantDate: true,
			Keywords: []string{"graduation", "end", "completion", "graduate"},
			Anti:     []string{"start", "from"}},
		{Key: "gpa", Value: e.GPA,
			Keywords: []string{"gpa", "grade"}},
	})
}

// ProjectAttributes converts a project entry into its ordered
// attributes.
func ProjectAttributes(p types.Project) []Attribute {
	return compact([]Attribute{
		{Key: "name", Value: p.Name,
			Keywords: []string{"name", "title", "project"}},
		{Key: "description", Value: p.Description, WantLong: true,
			Keywords: []string{"description", "details", "summary", "about"}},
		{Key: "technologies", Value: p.Technologies,
			Keywords: []string{"technolog", "stack", "tools", "languages", "built with"}},
		{Key: "url", Value: p.URL,
			Keywords: []string{"url", "link", "website", "repo", "demo"}},
	})
}

// compact drops attributes with no value so empty profile fields never
// claim a control.
func compact(attrs []Attribute) []Attribute {
	out := attrs[:0]
	for _, a := range attrs {
		if a.Value != "" {
			out = append(out, a)
		}
	}
	return out
}
